package input

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Amon20044/SketchFab-Apify-Actor/internal/domain"
)

// controlKeys are the fields that steer the run rather than filter the
// search. They are stripped from the manual-filter mapping.
var controlKeys = map[string]struct{}{
	"useAI":         {},
	"naturalQuery":  {},
	"googleApiKey":  {},
	"cursor":        {},
	"count":         {},
	"maxPages":      {},
	"dedupeResults": {},
}

// ActorInput is the decoded and validated run request.
type ActorInput struct {
	Intent   domain.SearchIntent
	MaxPages int
	Dedupe   bool
}

// Parse validates the raw JSON input against the schema and splits it into
// control fields and the manual-filter mapping. Unrecognized keys pass
// through into Filters; the manual normalizer ignores the ones it does not
// know.
func Parse(raw []byte) (ActorInput, error) {
	if len(raw) == 0 || strings.TrimSpace(string(raw)) == "" {
		return ActorInput{}, domain.ErrEmptyInput
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ActorInput{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := validate(fields); err != nil {
		return ActorInput{}, err
	}

	in := ActorInput{
		MaxPages: 1,
	}

	in.Intent.UseAI, _ = fields["useAI"].(bool)
	in.Intent.NaturalQuery, _ = fields["naturalQuery"].(string)
	in.Intent.APIKey, _ = fields["googleApiKey"].(string)
	in.Intent.Cursor, _ = fields["cursor"].(string)
	if n, ok := fields["count"].(float64); ok {
		in.Intent.PageSize = int(n)
	}
	if n, ok := fields["maxPages"].(float64); ok {
		in.MaxPages = int(n)
	}
	in.Dedupe, _ = fields["dedupeResults"].(bool)

	filters := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, control := controlKeys[k]; control {
			continue
		}
		filters[k] = v
	}
	in.Intent.Filters = filters

	return in, nil
}

func validate(fields map[string]any) error {
	schemaLoader := gojsonschema.NewStringLoader(inputSchema)
	documentLoader := gojsonschema.NewGoLoader(fields)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !result.Valid() {
		descs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			descs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(descs, "; "))
	}
	return nil
}
