package compose_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atelab/go-compose/pkg/compose"
	"github.com/atelab/go-compose/pkg/compose/model"
)

func noop(_ any, _ compose.Args) (any, error) { return nil, nil }

func passValue(_ any, args compose.Args) (any, error) { return args["value"], nil }

func addOne(_ any, args compose.Args) (any, error) { return args["value"].(float64) + 1, nil }

func double(_ any, args compose.Args) (any, error) { return args["value"].(float64) * 2, nil }

func half(_ any, args compose.Args) (any, error) { return args["value"].(float64) / 2, nil }

func valueStep(fn compose.Func) compose.Step {
	return compose.NewStep(fn, "self", "driver", "value")
}

func driverStep(fn compose.Func) compose.Step {
	return compose.NewStep(fn, "self", "driver")
}

func valueSigs() []compose.Signature {
	return []compose.Signature{compose.NormalizeSignature(compose.Params("self", "driver", "value"), "feat")}
}

// newFeature builds a feature-like support with a replace-only getter and
// two customizable hooks, post_get threading its value argument.
func newFeature(t *testing.T, opts ...model.Option) *compose.Support {
	t.Helper()

	checker := compose.NewSignatureChecker("feat").
		Operation("get", "", compose.Params("self", "driver")).
		ReplaceOnly("get").
		Operation("pre_get", "", compose.Params("self", "driver")).
		Operation("post_get", "value", compose.Params("self", "driver", "value"))

	sup, err := compose.NewSupport(checker, "feat", opts...)
	require.NoError(t, err)

	getter := func(_ any, _ compose.Args) (any, error) { return 0, nil }
	require.NoError(t, sup.Declare("get", driverStep(getter)))
	require.NoError(t, sup.Declare("pre_get", driverStep(noop)))
	require.NoError(t, sup.Declare("post_get", valueStep(passValue)))

	return sup
}
