package advice

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func decodeRequest(t *testing.T, body string) SuggestRequest {
	t.Helper()
	var req SuggestRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return req
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	out := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		out[i] = f.Field
	}
	return out
}

func TestNormalizeLegacyRequest(t *testing.T) {
	req := decodeRequest(t, `{"hero":"Lion","role":"hard support","rank":"Ancient","enemies":["Axe"," ","Lina"]}`)
	rc, err := req.Normalize("7.39d")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rc.Hero != "Lion" || rc.Role != "Hard Support" || rc.Rank != "Ancient" || rc.Patch != "7.39d" {
		t.Fatalf("unexpected context %+v", rc)
	}
	if !reflect.DeepEqual(rc.Enemies, []string{"Axe", "Lina"}) {
		t.Fatalf("unexpected enemies %v", rc.Enemies)
	}
	if rc.Self != nil || rc.EnemyStatus != nil || rc.Minute != nil {
		t.Fatalf("legacy form must not produce statuses: %+v", rc)
	}
}

func TestNormalizeUnifiedRequest(t *testing.T) {
	req := decodeRequest(t, `{
		"hero": "Sniper",
		"patch": "7.38",
		"minute": 14,
		"my_status": {"hero": "Lion", "role": "Support", "rank": "Legend", "level": 9, "kda": {"kills": 1, "deaths": 2, "assists": 7}},
		"enemy_status": [
			{"hero": "Axe", "level": 11, "kda": {"k": 3, "d": 0, "a": 1}},
			{"hero": "Lina"}
		],
		"enemies": ["ignored"]
	}`)
	rc, err := req.Normalize("7.39d")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rc.Hero != "Lion" || rc.Role != "Support" || rc.Rank != "Legend" || rc.Patch != "7.38" {
		t.Fatalf("my_status must win over flat fields: %+v", rc)
	}
	if rc.Minute == nil || *rc.Minute != 14 {
		t.Fatalf("minute not carried: %+v", rc.Minute)
	}
	if rc.Self == nil || *rc.Self.Level != 9 || *rc.Self.KDA != (KDA{K: 1, D: 2, A: 7}) {
		t.Fatalf("unexpected self status %+v", rc.Self)
	}
	if !reflect.DeepEqual(rc.Enemies, []string{"Axe", "Lina"}) {
		t.Fatalf("enemies must come from enemy_status, got %v", rc.Enemies)
	}
	if len(rc.EnemyStatus) != 2 || *rc.EnemyStatus[0].KDA != (KDA{K: 3, D: 0, A: 1}) || rc.EnemyStatus[1].Level != nil {
		t.Fatalf("unexpected enemy status %+v", rc.EnemyStatus)
	}
}

func TestNormalizeRejectsInvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"missing hero", `{"my_status":{"role":"Mid","rank":"Crusader"},"enemies":["Axe"]}`, []string{"my_status.hero"}},
		{"legacy missing fields", `{"enemies":["Axe"]}`, []string{"hero", "rank", "role"}},
		{"unknown role", `{"hero":"Lion","role":"Jungler","rank":"Ancient","enemies":["Axe"]}`, []string{"role"}},
		{"no enemies", `{"hero":"Lion","role":"Mid","rank":"Ancient"}`, []string{"enemies"}},
		{"negative minute", `{"hero":"Lion","role":"Mid","rank":"Ancient","enemies":["Axe"],"minute":-1}`, []string{"minute"}},
		{"level out of range", `{"my_status":{"hero":"Lion","role":"Mid","rank":"Ancient","level":31},"enemies":["Axe"]}`, []string{"my_status.level"}},
		{"partial kda", `{"my_status":{"hero":"Lion","role":"Mid","rank":"Ancient","kda":{"k":1}},"enemies":["Axe"]}`, []string{"my_status.kda"}},
		{"negative kda", `{"hero":"Lion","role":"Mid","rank":"Ancient","enemy_status":[{"hero":"Axe","kda":{"k":-1,"d":0,"a":0}}]}`, []string{"enemy_status[0].kda"}},
		{"enemy without hero", `{"hero":"Lion","role":"Mid","rank":"Ancient","enemy_status":[{"level":3}]}`, []string{"enemy_status[0].hero"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeRequest(t, tc.body).Normalize("7.39d")
			if got := fieldsOf(t, err); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("fields = %v, want %v", got, tc.want)
			}
		})
	}
}
