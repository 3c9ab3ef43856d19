package tickextract

import (
	"reflect"
	"testing"
)

func TestParseHints(t *testing.T) {
	tests := []struct {
		name string
		form map[string][]string
		want []string
	}{
		{"none", map[string][]string{"other": {"x"}}, []string{}},
		{"repeated", map[string][]string{"enemies": {"Axe", " Lina ", "axe"}}, []string{"Axe", "Lina"}},
		{"json array", map[string][]string{"enemies": {`["Axe","Sniper",""]`}}, []string{"Axe", "Sniper"}},
		{"csv", map[string][]string{"enemies": {"Axe, Lina\nShadow Shaman,,"}}, []string{"Axe", "Lina", "Shadow Shaman"}},
		{"single name", map[string][]string{"enemies": {"Anti-Mage"}}, []string{"Anti-Mage"}},
		{"indexed", map[string][]string{"enemies[1]": {"Lina"}, "enemies[0]": {"Axe"}, "enemies[10]": {"Pudge"}}, []string{"Axe", "Lina", "Pudge"}},
		{"brackets", map[string][]string{"enemies[]": {"Axe", "Lina"}}, []string{"Axe", "Lina"}},
		{
			"mixed with case-insensitive dedupe",
			map[string][]string{"enemies": {"Axe,Lina"}, "enemies[0]": {"LINA"}, "enemies[]": {"Sniper", "axe"}},
			[]string{"Axe", "Lina", "Sniper"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseHints(tc.form); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseHints = %#v, want %#v", got, tc.want)
			}
		})
	}
}
