// Package tickextract reads live enemy status from a scoreboard screenshot.
package tickextract

import (
	"context"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"dota-coach-backend/internal/llm"
	"dota-coach-backend/internal/llm/schema"
	"dota-coach-backend/internal/shared/metrics"
	"dota-coach-backend/internal/shared/telemetry"
	"dota-coach-backend/internal/shared/tracing"
	"dota-coach-backend/internal/shared/util"
)

// ToolName is the function the model must call.
const ToolName = "emit_tick_extract"

//go:embed prompts/tick_extract.txt
var instructionsTemplate string

var (
	// ErrNoImage is returned when the upload carries no image.
	ErrNoImage = errors.New("no image uploaded")
	// ErrImageTooLarge is returned when the upload exceeds the configured cap.
	ErrImageTooLarge = errors.New("image too large")
)

// ArgumentsError reports tool arguments that could not be decoded.
type ArgumentsError struct {
	Reason    string
	Arguments llm.RawArguments
}

func (e *ArgumentsError) Error() string {
	return "undecodable tool arguments: " + e.Reason
}

var extractSchema = schema.Obj([]schema.Property{
	schema.Prop("enemy_status", schema.ArrayOf(schema.Obj([]schema.Property{
		schema.Prop("hero", schema.Str()),
		schema.Prop("level", schema.Int()),
		schema.Prop("kda", schema.Obj([]schema.Property{
			schema.Prop("k", schema.Int()),
			schema.Prop("d", schema.Int()),
			schema.Prop("a", schema.Int()),
		}, "k", "d", "a")),
		schema.Prop("has_scepter", schema.Bool()),
		schema.Prop("has_shard", schema.Bool()),
		schema.Prop("talents", schema.ArrayOf(schema.Str())),
	}, "hero"))),
}, "enemy_status")

// ExtractTool is the non-strict tool offered on extraction calls; most members are optional.
func ExtractTool() llm.Tool {
	return llm.Tool{
		Name:        ToolName,
		Description: "Returns the data read from the screenshot in structured form.",
		Parameters:  extractSchema,
		Strict:      false,
	}
}

// KDA is kills/deaths/assists.
type KDA struct {
	K int `json:"k"`
	D int `json:"d"`
	A int `json:"a"`
}

// EnemyStatus is one enemy as read from the screenshot.
type EnemyStatus struct {
	Hero       string   `json:"hero"`
	Level      *int     `json:"level,omitempty"`
	KDA        *KDA     `json:"kda,omitempty"`
	HasScepter *bool    `json:"has_scepter,omitempty"`
	HasShard   *bool    `json:"has_shard,omitempty"`
	Talents    []string `json:"talents,omitempty"`
}

// Image is an uploaded screenshot.
type Image struct {
	Data        []byte
	ContentType string
}

// DataURL renders the image as a base64 data URL.
func (img Image) DataURL() string {
	mime := strings.TrimSpace(img.ContentType)
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(img.Data)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// Extraction is the response body. With hints, EnemyStatus holds the matched heroes
// in hint order; without hints the decoded arguments are returned unchanged.
type Extraction struct {
	EnemyStatus []EnemyStatus
	Document    json.RawMessage
	Normalized  bool
}

// MarshalJSON writes the normalized list or the raw document.
func (e Extraction) MarshalJSON() ([]byte, error) {
	if !e.Normalized {
		if len(e.Document) == 0 {
			return []byte("{}"), nil
		}
		return e.Document, nil
	}
	list := e.EnemyStatus
	if list == nil {
		list = []EnemyStatus{}
	}
	return json.Marshal(struct {
		EnemyStatus []EnemyStatus `json:"enemy_status"`
	}{EnemyStatus: list})
}

// Extractor runs one vision call per screenshot.
type Extractor struct {
	LLM llm.Invoker
}

// Extract asks the model for the scoreboard contents and restricts them to hints.
func (x *Extractor) Extract(ctx context.Context, img Image, hints []string) (Extraction, error) {
	ctx, span := tracing.Tracer("tickextract").Start(ctx, "tick.extract")
	defer span.End()
	span.SetAttributes(attribute.Int("tick.hints", len(hints)), attribute.Int("tick.image_bytes", len(img.Data)))

	if len(img.Data) == 0 {
		return Extraction{}, ErrNoImage
	}
	metrics.IncTickExtracts()
	start := time.Now()

	inv := llm.NewInvocation(buildInstructions(), buildUserText(hints), ExtractTool())
	inv.ImageDataURL = img.DataURL()

	res, err := x.LLM.Invoke(ctx, inv)
	fields := map[string]any{
		"hints":       len(hints),
		"image_bytes": len(img.Data),
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invoke failed")
		fields["error"] = util.SanitizeError(err)
		telemetry.Warn("tick.extract", fields)
		return Extraction{}, err
	}

	doc, err := argumentsDocument(res.ToolCall)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad arguments")
		return Extraction{}, err
	}

	out := Extraction{Document: doc}
	if list := gjson.GetBytes(doc, "enemy_status"); len(hints) > 0 && list.IsArray() {
		out.EnemyStatus = restrictToHints(list, hints)
		out.Normalized = true
	}
	fields["returned"] = len(out.EnemyStatus)
	telemetry.Info("tick.extract", fields)
	return out, nil
}

func buildInstructions() string {
	return strings.TrimSpace(strings.ReplaceAll(instructionsTemplate, "{{TOOL}}", ToolName))
}

func buildUserText(hints []string) string {
	text := "Extract the data from the screenshot."
	if len(hints) > 0 {
		text += "\nExpected enemies (restrict the output to these): " + strings.Join(hints, ", ")
	}
	return text
}

func argumentsDocument(call *llm.ToolCall) (json.RawMessage, error) {
	if call == nil {
		return nil, &llm.NoToolCallError{Tool: ToolName}
	}
	args := call.Arguments
	switch args.Kind {
	case llm.ArgumentsMissing:
		return json.RawMessage("{}"), nil
	case llm.ArgumentsStringEncoded:
		if !json.Valid([]byte(args.Encoded)) {
			return nil, &ArgumentsError{Reason: "arguments string is not valid json", Arguments: args}
		}
		return json.RawMessage(args.Encoded), nil
	default:
		if !json.Valid(args.Value) {
			return nil, &ArgumentsError{Reason: "arguments are not valid json", Arguments: args}
		}
		return args.Value, nil
	}
}

// restrictToHints maps each returned hero onto a hint, exact match first and then
// substring, keeps the last row per hint and emits them in hint order.
func restrictToHints(list gjson.Result, hints []string) []EnemyStatus {
	byHint := make(map[string]gjson.Result, len(hints))
	list.ForEach(func(_, row gjson.Result) bool {
		hero := row.Get("hero").String()
		if hint, ok := matchHint(hero, hints); ok {
			byHint[strings.ToLower(hint)] = row
		}
		return true
	})

	out := make([]EnemyStatus, 0, len(byHint))
	for _, hint := range hints {
		row, ok := byHint[strings.ToLower(hint)]
		if !ok {
			continue
		}
		out = append(out, coerceRow(hint, row))
	}
	return out
}

func matchHint(hero string, hints []string) (string, bool) {
	h := strings.ToLower(strings.TrimSpace(hero))
	if h == "" {
		return "", false
	}
	for _, hint := range hints {
		if strings.ToLower(hint) == h {
			return hint, true
		}
	}
	for _, hint := range hints {
		if strings.Contains(h, strings.ToLower(hint)) {
			return hint, true
		}
	}
	return "", false
}

func coerceRow(hero string, row gjson.Result) EnemyStatus {
	out := EnemyStatus{Hero: hero}
	if n, ok := finite(row.Get("level")); ok {
		level := clampCount(n, maxLevel)
		out.Level = &level
	}
	if kda := row.Get("kda"); kda.IsObject() {
		k, kok := finite(kda.Get("k"))
		d, dok := finite(kda.Get("d"))
		a, aok := finite(kda.Get("a"))
		if kok && dok && aok {
			out.KDA = &KDA{K: clampCount(k, maxKDA), D: clampCount(d, maxKDA), A: clampCount(a, maxKDA)}
		}
	}
	if v := row.Get("has_scepter"); isBool(v) {
		b := v.Bool()
		out.HasScepter = &b
	}
	if v := row.Get("has_shard"); isBool(v) {
		b := v.Bool()
		out.HasShard = &b
	}
	if talents := row.Get("talents"); talents.IsArray() {
		talents.ForEach(func(_, t gjson.Result) bool {
			if s := strings.TrimSpace(t.String()); s != "" {
				out.Talents = append(out.Talents, s)
			}
			return true
		})
	}
	return out
}

// finite reads a number, accepting numeric strings.
func finite(v gjson.Result) (float64, bool) {
	var n float64
	switch v.Type {
	case gjson.Number:
		n = v.Float()
	case gjson.String:
		s := strings.TrimSpace(v.String())
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func isBool(v gjson.Result) bool {
	return v.Type == gjson.True || v.Type == gjson.False
}

// Upper bounds for coerced counters; larger readings are misreads.
const (
	maxLevel = 30
	maxKDA   = math.MaxInt32
)

// clampCount truncates n into [0, limit] before converting, so out-of-range
// floats never reach the int conversion.
func clampCount(n float64, limit int) int {
	switch {
	case n <= 0:
		return 0
	case n >= float64(limit):
		return limit
	}
	return int(math.Trunc(n))
}
