package lua

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestBridgeRoundTrip(t *testing.T) {
	L := lua.NewState()
	defer L.Close()
	b := NewBridge(L)

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"string", "hello", "hello"},
		{"int", 42, int64(42)},
		{"float", 1.5, 1.5},
		{"bool", true, true},
		{"nil", nil, nil},
		{"uint8", uint8(7), int64(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.ToGoValue(b.ToLuaValue(tt.in)); got != tt.want {
				t.Errorf("round trip = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestBridgeTables(t *testing.T) {
	L := lua.NewState()
	defer L.Close()
	b := NewBridge(L)

	list, ok := b.ToGoValue(b.ToLuaValue([]string{"a", "b"})).([]any)
	if !ok || len(list) != 2 || list[1] != "b" {
		t.Errorf("slice = %#v", list)
	}

	m, ok := b.ToGoValue(b.ToLuaValue(map[string]int{"n": 1})).(map[string]any)
	if !ok || m["n"] != int64(1) {
		t.Errorf("map = %#v", m)
	}
}

func TestGetTableStrings(t *testing.T) {
	L := lua.NewState()
	defer L.Close()
	b := NewBridge(L)

	if err := L.DoString(`single = { keys = "ctrl+s" } multi = { keys = { "a", "b" } }`); err != nil {
		t.Fatal(err)
	}
	single := L.GetGlobal("single").(*lua.LTable)
	multi := L.GetGlobal("multi").(*lua.LTable)

	if got := b.GetTableStrings(single, "keys"); len(got) != 1 || got[0] != "ctrl+s" {
		t.Errorf("single = %v", got)
	}
	if got := b.GetTableStrings(multi, "keys"); len(got) != 2 {
		t.Errorf("multi = %v", got)
	}
	if got := b.GetTableStrings(multi, "missing"); got != nil {
		t.Errorf("missing = %v", got)
	}
}
