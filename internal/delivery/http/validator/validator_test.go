package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flagQuery struct {
	View string `validate:"required,flagview"`
}

func TestCustomValidator_FlagView(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	testCases := []struct {
		view  string
		valid bool
	}{
		{"T", true},
		{"TTFT", true},
		{strings.Repeat("F", 1000), true},
		{"", false},
		{"ttff", false},
		{"TF T", false},
		{"broken input", false},
	}

	for _, tc := range testCases {
		err := v.Validate(&flagQuery{View: tc.view})
		if tc.valid {
			assert.NoError(t, err, "view %q", tc.view)
		} else {
			assert.Error(t, err, "view %q", tc.view)
		}
	}
}
