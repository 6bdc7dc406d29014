// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package facility_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/willowgate/willowgate/internal/facility"
)

func TestResult_Factories(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		r := facility.OK("done", nil)
		assert.True(t, r.IsSuccess())
		assert.False(t, r.IsError())
		assert.False(t, r.NeedsConfirmation())
		assert.Equal(t, facility.KindSuccess, r.Kind)
	})

	t.Run("error is never a success", func(t *testing.T) {
		r := facility.Error("broke", "detail")
		assert.False(t, r.IsSuccess())
		assert.True(t, r.IsError())
		assert.False(t, r.Success)
		assert.Equal(t, []string{"detail"}, r.Errors)
	})

	t.Run("warning", func(t *testing.T) {
		r := facility.Warning("careful", nil, "low on gold")
		assert.True(t, r.IsWarning())
		assert.False(t, r.IsError())
	})

	t.Run("info", func(t *testing.T) {
		r := facility.Info("fyi", nil)
		assert.True(t, r.IsSuccess())
		assert.False(t, r.IsWarning())
	})

	t.Run("confirm is not yet committed", func(t *testing.T) {
		r := facility.Confirm("sure?", nil)
		assert.True(t, r.NeedsConfirmation())
		assert.False(t, r.Success)
		assert.False(t, r.IsSuccess())
	})
}

func TestResult_AddError(t *testing.T) {
	r := facility.OK("done", nil)
	r.AddError("something failed")

	assert.True(t, r.IsError())
	assert.False(t, r.IsSuccess())
	assert.Equal(t, []string{"something failed"}, r.Errors)
}

func TestResult_AddWarning(t *testing.T) {
	r := facility.OK("done", nil)
	r.AddWarning("stock low")

	assert.True(t, r.IsWarning())
	assert.Equal(t, facility.KindWarning, r.Kind)

	// A warning never downgrades an error.
	e := facility.Error("broke")
	e.AddWarning("also this")
	assert.True(t, e.IsError())
	assert.True(t, e.IsWarning()) // warnings list is non-empty
	assert.Equal(t, facility.KindError, e.Kind)
}

func TestResult_SetMeta(t *testing.T) {
	r := facility.Info("fyi", nil)
	r.SetMeta("facility", "inn")
	assert.Equal(t, "inn", r.Metadata["facility"])
}
