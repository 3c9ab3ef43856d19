package advice

import (
	"strconv"
	"strings"
)

const (
	minLevel = 1
	maxLevel = 30
)

// KDAInput accepts both k/d/a and kills/deaths/assists spellings.
type KDAInput struct {
	K       *int `json:"k,omitempty"`
	D       *int `json:"d,omitempty"`
	A       *int `json:"a,omitempty"`
	Kills   *int `json:"kills,omitempty"`
	Deaths  *int `json:"deaths,omitempty"`
	Assists *int `json:"assists,omitempty"`
}

// MyStatusInput is the caller's own hero in the unified request form.
type MyStatusInput struct {
	Hero  string    `json:"hero"`
	Role  string    `json:"role"`
	Rank  string    `json:"rank"`
	Level *int      `json:"level,omitempty"`
	KDA   *KDAInput `json:"kda,omitempty"`
}

// EnemyStatusInput is one enemy in the unified request form.
type EnemyStatusInput struct {
	Hero  string    `json:"hero"`
	Level *int      `json:"level,omitempty"`
	KDA   *KDAInput `json:"kda,omitempty"`
}

// SuggestRequest is the body of /suggest and /tick. The flat hero/role/rank/enemies
// fields are the legacy form; my_status and enemy_status take precedence.
type SuggestRequest struct {
	Hero        string             `json:"hero,omitempty"`
	Role        string             `json:"role,omitempty"`
	Rank        string             `json:"rank,omitempty"`
	Patch       string             `json:"patch,omitempty"`
	Enemies     []string           `json:"enemies,omitempty"`
	Minute      *int               `json:"minute,omitempty"`
	MyStatus    *MyStatusInput     `json:"my_status,omitempty"`
	EnemyStatus []EnemyStatusInput `json:"enemy_status,omitempty"`
}

// Normalize validates the request and resolves aliases into a RequestContext.
func (r SuggestRequest) Normalize(defaultPatch string) (RequestContext, error) {
	verr := &ValidationError{}
	rc := RequestContext{
		Hero:   strings.TrimSpace(r.Hero),
		Role:   strings.TrimSpace(r.Role),
		Rank:   strings.TrimSpace(r.Rank),
		Patch:  strings.TrimSpace(r.Patch),
		Minute: r.Minute,
	}
	if rc.Patch == "" {
		rc.Patch = defaultPatch
	}

	if ms := r.MyStatus; ms != nil {
		if v := strings.TrimSpace(ms.Hero); v != "" {
			rc.Hero = v
		}
		if v := strings.TrimSpace(ms.Role); v != "" {
			rc.Role = v
		}
		if v := strings.TrimSpace(ms.Rank); v != "" {
			rc.Rank = v
		}
		status := normalizeStatus("my_status", ms.Level, ms.KDA, verr)
		if status.Level != nil || status.KDA != nil {
			rc.Self = &status
		}
	}

	if rc.Hero == "" {
		verr.add(heroField(r), "is required")
	}
	if rc.Rank == "" {
		verr.add(rankField(r), "is required")
	}
	if rc.Role == "" {
		verr.add(roleField(r), "is required")
	} else if role, ok := canonicalRole(rc.Role); ok {
		rc.Role = role
	} else {
		verr.add(roleField(r), "must be one of "+strings.Join(Roles, ", "))
	}
	if rc.Minute != nil && *rc.Minute < 0 {
		verr.add("minute", "must be >= 0")
	}

	if len(r.EnemyStatus) > 0 {
		for i, es := range r.EnemyStatus {
			field := "enemy_status[" + strconv.Itoa(i) + "]"
			hero := strings.TrimSpace(es.Hero)
			if hero == "" {
				verr.add(field+".hero", "is required")
				continue
			}
			rc.Enemies = append(rc.Enemies, hero)
			status := normalizeStatus(field, es.Level, es.KDA, verr)
			rc.EnemyStatus = append(rc.EnemyStatus, EnemyStatus{Hero: hero, PlayerStatus: status})
		}
	} else {
		for _, e := range r.Enemies {
			if hero := strings.TrimSpace(e); hero != "" {
				rc.Enemies = append(rc.Enemies, hero)
			}
		}
	}
	if len(rc.Enemies) == 0 && len(r.EnemyStatus) == 0 {
		verr.add("enemies", "at least one enemy is required")
	}

	if err := verr.orNil(); err != nil {
		return RequestContext{}, err
	}
	return rc, nil
}

func normalizeStatus(field string, level *int, kda *KDAInput, verr *ValidationError) PlayerStatus {
	var out PlayerStatus
	if level != nil {
		if *level < minLevel || *level > maxLevel {
			verr.add(field+".level", "must be between 1 and 30")
		} else {
			l := *level
			out.Level = &l
		}
	}
	if kda != nil {
		k, kok := firstSet(kda.K, kda.Kills)
		d, dok := firstSet(kda.D, kda.Deaths)
		a, aok := firstSet(kda.A, kda.Assists)
		switch {
		case !kok || !dok || !aok:
			verr.add(field+".kda", "requires k|kills, d|deaths and a|assists")
		case k < 0 || d < 0 || a < 0:
			verr.add(field+".kda", "values must be >= 0")
		default:
			out.KDA = &KDA{K: k, D: d, A: a}
		}
	}
	return out
}

func firstSet(vals ...*int) (int, bool) {
	for _, v := range vals {
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}

func canonicalRole(role string) (string, bool) {
	for _, r := range Roles {
		if strings.EqualFold(r, role) {
			return r, true
		}
	}
	return "", false
}

func heroField(r SuggestRequest) string {
	if r.MyStatus != nil {
		return "my_status.hero"
	}
	return "hero"
}

func roleField(r SuggestRequest) string {
	if r.MyStatus != nil {
		return "my_status.role"
	}
	return "role"
}

func rankField(r SuggestRequest) string {
	if r.MyStatus != nil {
		return "my_status.rank"
	}
	return "rank"
}
