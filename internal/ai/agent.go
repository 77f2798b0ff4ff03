package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"

	"granite-console/internal/core"
)

// Interpreter turns a free-text description of goods into proposed invoice lines.
type Interpreter interface {
	InterpretLineItems(ctx context.Context, text string, catalog []core.InventoryItem) (*Interpretation, error)
}

type Agent struct {
	client *openai.Client
	model  shared.ResponsesModel
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client, model: shared.ResponsesModel(shared.ChatModelGPT4o)}
}

// InterpretLineItems asks the model for line items matching text, constrained
// to the given stock catalogue. The result is either proposed items or a
// clarification question; items are resolved against the catalogue before return.
func (a *Agent) InterpretLineItems(ctx context.Context, text string, catalog []core.InventoryItem) (*Interpretation, error) {
	schemaMap, err := schemaMap()
	if err != nil {
		return nil, err
	}

	params := responses.ResponseNewParams{
		Model: a.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(BuildPrompt(text, catalog)),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "invoice_line_items",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("Proposed GST invoice line items, or a clarification question"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}
	return ParseInterpretation(content, catalog)
}

// ParseInterpretation decodes a model response and resolves it against catalog.
func ParseInterpretation(content string, catalog []core.InventoryItem) (*Interpretation, error) {
	var in Interpretation
	if err := json.Unmarshal([]byte(content), &in); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	in.Resolve(catalog)
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("interpretation validation failed: %w", err)
	}
	return &in, nil
}

// BuildPrompt renders the instruction prompt with the stock catalogue inlined.
func BuildPrompt(text string, catalog []core.InventoryItem) string {
	var b strings.Builder
	for _, it := range catalog {
		fmt.Fprintf(&b, "- %s | colour: %s | thickness: %s | unit: %s | rate: %s | on hand: %s\n",
			it.ItemName, orDash(it.ItemColor), orDash(it.ItemThickness), it.UnitOrDefault(),
			fmtNumber(it.Rate), fmtNumber(it.Quantity))
	}
	if b.Len() == 0 {
		b.WriteString("(no stock items)\n")
	}

	return fmt.Sprintf(`You are the billing assistant of a granite trading business.
Turn the request below into GST invoice line items.
Rules:
1. Each item's particulars MUST be the exact name of an item in the stock list.
2. Quantities and rates are plain decimal strings (e.g. "12.5"). Leave rate empty to use the listed rate.
3. Use HSN 6802 unless the request names another code.
4. If an item, quantity or rate cannot be determined, set is_clarification and ask one short question instead.
5. Explain your reasoning.

Stock list:
%s
Request: %s`, b.String(), text)
}

func generateSchema() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v Interpretation
	return reflector.Reflect(v)
}

func schemaMap() (map[string]any, error) {
	schemaJSON, err := json.Marshal(generateSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(schemaJSON, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}
	return m, nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
