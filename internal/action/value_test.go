package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueStatic(t *testing.T) {
	v := Text("Save")
	assert.True(t, v.IsSet())
	assert.False(t, v.IsComputed())
	assert.Equal(t, "Save", v.Resolve(nil))
}

func TestValueComputed(t *testing.T) {
	calls := 0
	v := Computed(func(scope Context, args ...any) string {
		calls++
		name, _ := scope.(string)
		if len(args) > 0 {
			return name + "!"
		}
		return name
	})

	assert.True(t, v.IsComputed())
	assert.Equal(t, "file.go", v.Resolve("file.go"))
	assert.Equal(t, "main.go!", v.Resolve("main.go", 1))
	assert.Equal(t, 2, calls, "computed values are never cached")
}

func TestValueZero(t *testing.T) {
	var v Value[bool]
	assert.False(t, v.IsSet())
	assert.False(t, v.Resolve(nil))
	assert.True(t, v.ResolveOr(true, nil))

	assert.False(t, Bool(false).ResolveOr(true, nil))
	assert.False(t, Computed[string](nil).IsSet())
}
