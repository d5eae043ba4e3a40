package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/atelab/go-compose/pkg/compose/measure"
)

// DOTDrawer renders the operations of an object and their step chains as a
// DOT digraph, one branch per operation.
type DOTDrawer struct {
	graph       graph.Graph[string, string]
	chains      map[string][]string
	dotFileName string
}

// NewDOTDrawer creates a new DOT drawer writing to dotFileName.
func NewDOTDrawer(dotFileName string) *DOTDrawer {
	return &DOTDrawer{
		dotFileName: dotFileName,
		graph:       graph.New(graph.StringHash, graph.Directed()),
		chains:      make(map[string][]string),
	}
}

// AddOperation adds an operation vertex to the graph.
func (d *DOTDrawer) AddOperation(opName string) error {
	err := d.graph.AddVertex(opName)
	if err != nil {
		return errors.Wrapf(err, "unable to add operation %s", opName)
	}

	return nil
}

// SetChain records the current step chain of an operation, replacing the
// edges of the previous one.
func (d *DOTDrawer) SetChain(opName string, stepIDs []string) error {
	previous := d.chains[opName]

	last := opName
	for _, id := range previous {
		key := stepKey(opName, id)
		_ = d.graph.RemoveEdge(last, key)
		last = key
	}

	for _, id := range previous {
		if !containsID(stepIDs, id) {
			_ = d.graph.RemoveVertex(stepKey(opName, id))
		}
	}

	last = opName
	for _, id := range stepIDs {
		key := stepKey(opName, id)

		err := d.graph.AddVertex(key, graph.VertexAttribute("label", id))
		if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return errors.Wrapf(err, "unable to add step %s", key)
		}

		err = d.graph.AddEdge(last, key)
		if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return errors.Wrapf(err, "unable to add edge from %s to %s", last, key)
		}

		last = key
	}

	d.chains[opName] = append([]string(nil), stepIDs...)

	return nil
}

// Draw creates a DOT file with the operation graph.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.dotFileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.dotFileName)
	}
	defer file.Close()

	err = dot(d.graph, file)
	if err != nil {
		return errors.Wrapf(err, "unable to render dot file %s", d.dotFileName)
	}

	return nil
}

const maxRGB = 240

// AddMeasure labels every step vertex with its average duration and colors
// it on a blue-to-red scale, slowest steps in red.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	stepAvgs := make(map[string]time.Duration)
	sortedAvgs := []time.Duration{}

	for opName, metric := range msr.AllMetrics() {
		for stepID, avg := range metric.AVGStepDuration() {
			if avg == 0 {
				continue
			}

			stepAvgs[stepKey(opName, stepID)] = avg
			sortedAvgs = append(sortedAvgs, avg)
		}
	}

	if len(stepAvgs) == 0 {
		return nil
	}

	sort.Slice(sortedAvgs, func(i, j int) bool {
		return sortedAvgs[i] > sortedAvgs[j]
	})

	maxValue := sortedAvgs[0]
	minValue := sortedAvgs[len(sortedAvgs)-1]

	for key, avg := range stepAvgs {
		fraction := time.Duration(1)
		if maxValue > minValue {
			fraction = (avg - minValue) / (maxValue - minValue)
		}

		red := maxRGB * fraction
		blue := -maxRGB*fraction + maxRGB

		heatColor, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		_, properties, err := d.graph.VertexWithProperties(key)
		if err != nil {
			return errors.Wrapf(err, "unable to get vertex properties of %s", key)
		}

		properties.Attributes["xlabel"] = avg.String()
		properties.Attributes["color"] = heatColor.ToHEX().String()
	}

	return nil
}

func stepKey(opName, stepID string) string {
	return opName + "/" + stepID
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}

	return false
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           interface{}
	Target           interface{}
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot[K comparable, T any](g graph.Graph[K, T], wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(g, options...)
	if err != nil {
		return errors.Wrap(err, "unable to generate DOT description")
	}

	return renderDOT(wrt, desc)
}

// GraphAttribute is a functional option for the [dot] method.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

func generateDOT[K comparable, T any](gra graph.Graph[K, T], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for vertex, adjacencies := range adjacencyMap {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		htmlAttributes := make(map[string]string)

		if xlabel, ok := sourceProperties.Attributes["xlabel"]; ok {
			htmlAttributes["label"] = fmt.Sprintf(`<%+v <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, xlabel)

			delete(sourceProperties.Attributes, "xlabel")
		}

		stmt := statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceProperties.Attributes,
			HTMLAttributes:   htmlAttributes,
		}
		desc.Statements = append(desc.Statements, stmt)

		for adjacency, edge := range adjacencies {
			stmt := statement{
				Source:         vertex,
				Target:         adjacency,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			}
			desc.Statements = append(desc.Statements, stmt)
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "unable to parse template")
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
