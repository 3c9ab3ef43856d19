package advice

import "dota-coach-backend/internal/catalog"

// Phase buckets when in a match an item should be bought.
type Phase string

const (
	PhaseStarting    Phase = "starting"
	PhaseEarly       Phase = "early"
	PhaseMid         Phase = "mid"
	PhaseLate        Phase = "late"
	PhaseSituational Phase = "situational"
)

// Phases lists the accepted phase values in match order.
var Phases = []string{
	string(PhaseStarting),
	string(PhaseEarly),
	string(PhaseMid),
	string(PhaseLate),
	string(PhaseSituational),
}

// Roles lists the accepted player roles.
var Roles = []string{"Mid", "Offlane", "Hard Carry", "Support", "Hard Support"}

// PurchaseRow is one recommended purchase. Repeats are written as "Tango x2".
type PurchaseRow struct {
	Item  string `json:"item"`
	Why   string `json:"why"`
	Phase Phase  `json:"phase"`
}

// PurchaseOrder is the recommended buy sequence; order is significant.
type PurchaseOrder []PurchaseRow

// Rows converts the order for pricing.
func (o PurchaseOrder) Rows() []catalog.Row {
	rows := make([]catalog.Row, len(o))
	for i, r := range o {
		rows[i] = catalog.Row{Item: r.Item, Phase: string(r.Phase)}
	}
	return rows
}

// KDA is kills/deaths/assists.
type KDA struct {
	K int `json:"k"`
	D int `json:"d"`
	A int `json:"a"`
}

// PlayerStatus is optional live state of a hero.
type PlayerStatus struct {
	Level *int
	KDA   *KDA
}

// EnemyStatus is the live state of one enemy hero.
type EnemyStatus struct {
	Hero string
	PlayerStatus
}

// RequestContext is everything the prompt is built from. It lives for one request.
type RequestContext struct {
	Hero        string
	Role        string
	Rank        string
	Patch       string
	Enemies     []string
	Minute      *int
	Self        *PlayerStatus
	EnemyStatus []EnemyStatus
}

// Recommendation is the response body of a successful run.
type Recommendation struct {
	Hero          string        `json:"hero"`
	Role          string        `json:"role"`
	Rank          string        `json:"rank"`
	Patch         string        `json:"patch"`
	Enemies       []string      `json:"enemies"`
	Minute        *int          `json:"minute,omitempty"`
	PurchaseOrder PurchaseOrder `json:"purchase_order"`
}

// Outcome values recorded per run.
const (
	OutcomeAccepted       = "accepted"
	OutcomeCorrected      = "corrected"
	OutcomeBudgetExceeded = "budget_exceeded"
	OutcomeFailed         = "failed"
)
