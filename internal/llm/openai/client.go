package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"dota-coach-backend/internal/llm"
	"dota-coach-backend/internal/shared/metrics"
	"dota-coach-backend/internal/shared/telemetry"
	"dota-coach-backend/internal/shared/tracing"
)

const defaultTimeout = 60 * time.Second

// Config configures the Responses API client.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	ReasoningEffort string
	Timeout         time.Duration
	// HTTPClient overrides the pooled transport, mainly for tests.
	HTTPClient *http.Client
}

// Client implements llm.Invoker on the OpenAI Responses API.
// One Client is built at startup and shared; its transport keeps connections alive.
type Client struct {
	sdk             openai.Client
	model           string
	reasoningEffort string
	timeout         time.Duration
}

// NewClient constructs a new OpenAI client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newPooledHTTPClient()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithRequestTimeout(timeout),
		// One attempt per invocation; the budget loop owns the only retry.
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}

	return &Client{
		sdk:             openai.NewClient(opts...),
		model:           strings.TrimSpace(cfg.Model),
		reasoningEffort: strings.TrimSpace(cfg.ReasoningEffort),
		timeout:         timeout,
	}, nil
}

func newPooledHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        32,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{Transport: transport}
}

// Model returns the configured model id.
func (c *Client) Model() string { return c.model }

// Invoke sends one request offering exactly inv.Tool and forcing the model to call it.
func (c *Client) Invoke(ctx context.Context, inv llm.Invocation) (llm.Result, error) {
	op := "invoke " + inv.Tool.Name
	ctx, span := tracing.Tracer("llm").Start(ctx, "llm.invoke")
	defer span.End()
	span.SetAttributes(tracing.GenAIAttributes("openai", c.model, inv.Tool.Name)...)
	span.SetAttributes(attribute.Bool("llm.image", inv.ImageDataURL != ""))

	start := time.Now()
	metrics.IncLLMInvocations(inv.Tool.Name)
	resp, err := c.sdk.Responses.New(ctx, c.buildParams(inv))
	durationMs := time.Since(start).Milliseconds()
	if err != nil {
		terr := classify(op, err)
		span.RecordError(terr)
		span.SetStatus(codes.Error, "transport")
		telemetry.Warn("llm.invoke_failed", map[string]any{
			"tool":        inv.Tool.Name,
			"model":       c.model,
			"duration_ms": durationMs,
			"status":      terr.StatusCode,
			"timeout":     terr.Timeout,
			"error":       terr.Error(),
		})
		return llm.Result{}, terr
	}

	raw := json.RawMessage(resp.RawJSON())
	logUsage(c.model, inv.Tool.Name, durationMs, resp)
	call, ok := llm.FindToolCall(raw, inv.Tool.Name)
	if !ok {
		span.SetStatus(codes.Error, "no tool call")
		return llm.Result{Raw: raw}, &llm.NoToolCallError{Tool: inv.Tool.Name, Raw: raw}
	}
	span.SetAttributes(attribute.String("llm.arguments_kind", call.Arguments.Kind.String()))
	return llm.Result{Raw: raw, ToolCall: call}, nil
}

func (c *Client) buildParams(inv llm.Invocation) responses.ResponseNewParams {
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(c.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: buildInput(inv),
		},
		Tools: []responses.ToolUnionParam{buildTool(inv.Tool)},
		ToolChoice: responses.ResponseNewParamsToolChoiceUnion{
			OfFunctionTool: &responses.ToolChoiceFunctionParam{Name: inv.Tool.Name},
		},
		Store: openai.Bool(true),
	}
	if c.reasoningEffort != "" && isReasoningModel(c.model) {
		params.Reasoning = shared.ReasoningParam{}
		params.Reasoning.Effort = shared.ReasoningEffort(c.reasoningEffort)
	}
	return params
}

func buildInput(inv llm.Invocation) responses.ResponseInputParam {
	input := make(responses.ResponseInputParam, 0, len(inv.Messages)+2)
	if strings.TrimSpace(inv.Instructions) != "" {
		input = append(input, responses.ResponseInputItemParamOfMessage(inv.Instructions, responses.EasyInputMessageRoleDeveloper))
	}
	for _, m := range inv.Messages {
		switch m.Role {
		case llm.RoleAssistant:
			input = append(input, responses.ResponseInputItemParamOfMessage(m.Content, responses.EasyInputMessageRoleAssistant))
		default:
			input = append(input, responses.ResponseInputItemParamOfMessage(m.Content, responses.EasyInputMessageRoleUser))
		}
	}
	if inv.ImageDataURL != "" {
		image := responses.ResponseInputMessageContentListParam{
			{OfInputImage: &responses.ResponseInputImageParam{
				ImageURL: openai.String(inv.ImageDataURL),
				Detail:   responses.ResponseInputImageDetailAuto,
			}},
		}
		input = append(input, responses.ResponseInputItemParamOfMessage(image, responses.EasyInputMessageRoleUser))
	}
	return input
}

func buildTool(tool llm.Tool) responses.ToolUnionParam {
	out := responses.ToolParamOfFunction(tool.Name, tool.Parameters.ToMap(), tool.Strict)
	if tool.Description != "" {
		function := out.OfFunction
		function.Description = openai.String(tool.Description)
		out.OfFunction = function
	}
	return out
}

func classify(op string, err error) *llm.TransportError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return llm.NewTransportError(op, apiErr.StatusCode, err)
	}
	return llm.NewTransportError(op, 0, err)
}

func logUsage(model, tool string, durationMs int64, resp *responses.Response) {
	telemetry.Info("llm.response", map[string]any{
		"model":         model,
		"tool":          tool,
		"duration_ms":   durationMs,
		"response_id":   resp.ID,
		"input_tokens":  resp.Usage.InputTokens,
		"output_tokens": resp.Usage.OutputTokens,
		"total_tokens":  resp.Usage.TotalTokens,
	})
}

// isReasoningModel reports whether the model accepts a reasoning effort.
func isReasoningModel(model string) bool {
	m := strings.ToLower(strings.TrimSpace(model))
	return strings.HasPrefix(m, "gpt-5") || strings.HasPrefix(m, "o1") || strings.HasPrefix(m, "o3") || strings.HasPrefix(m, "o4")
}

var _ llm.Invoker = (*Client)(nil)
