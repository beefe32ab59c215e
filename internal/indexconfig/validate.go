package indexconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
)

// Problem is one validation finding. Path is a JSON-pointer-like location
// ("/index_jobs/0/indexer"); empty for document-level problems.
type Problem struct {
	Path    string
	Message string
}

func (p Problem) String() string {
	if p.Path == "" {
		return p.Message
	}
	return p.Path + ": " + p.Message
}

// Parse strips JSONC comments and trailing commas from content and decodes
// it. Empty or whitespace-only content is an empty configuration.
func Parse(content string) (Configuration, error) {
	var cfg Configuration
	if strings.TrimSpace(content) == "" {
		return cfg, nil
	}
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON([]byte(content))))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Configuration{}, fmt.Errorf("parsing index configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports schema problems in content. The result is advisory:
// saving is never blocked on it.
func Validate(content string) []Problem {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	// Decode leniently first so structural problems are reported together.
	raw := jsonc.ToJSON([]byte(content))
	var cfg Configuration
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return []Problem{{Message: describeJSONError(err)}}
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return []Problem{{Message: describeJSONError(err)}}
	}
	problems := unknownFields(doc)
	for i, step := range cfg.SharedSteps {
		problems = append(problems, validateStep(fmt.Sprintf("/shared_steps/%d", i), step)...)
	}
	for i, job := range cfg.IndexJobs {
		path := fmt.Sprintf("/index_jobs/%d", i)
		if strings.TrimSpace(job.Indexer) == "" {
			problems = append(problems, Problem{Path: path + "/indexer", Message: "indexer is required"})
		}
		for j, step := range job.Steps {
			problems = append(problems, validateStep(fmt.Sprintf("%s/steps/%d", path, j), step)...)
		}
	}
	return problems
}

func validateStep(path string, step DockerStep) []Problem {
	if strings.TrimSpace(step.Image) == "" {
		return []Problem{{Path: path + "/image", Message: "image is required"}}
	}
	return nil
}

func describeJSONError(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("invalid JSON at offset %d: %s", syntaxErr.Offset, syntaxErr.Error())
	case errors.As(err, &typeErr):
		return fmt.Sprintf("%s: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
	}
	return err.Error()
}

var (
	configurationFields = []string{"shared_steps", "index_jobs"}
	indexJobFields      = []string{"steps", "local_steps", "root", "indexer", "indexer_args", "outfile"}
	dockerStepFields    = []string{"root", "image", "commands"}
)

// unknownFields reports every key the schema does not define, at any level.
func unknownFields(doc map[string]any) []Problem {
	problems := checkFields("", doc, configurationFields)
	for i, step := range objects(doc["shared_steps"]) {
		problems = append(problems, checkFields(fmt.Sprintf("/shared_steps/%d", i), step, dockerStepFields)...)
	}
	for i, job := range objects(doc["index_jobs"]) {
		path := fmt.Sprintf("/index_jobs/%d", i)
		problems = append(problems, checkFields(path, job, indexJobFields)...)
		for j, step := range objects(job["steps"]) {
			problems = append(problems, checkFields(fmt.Sprintf("%s/steps/%d", path, j), step, dockerStepFields)...)
		}
	}
	return problems
}

func checkFields(path string, obj map[string]any, known []string) []Problem {
	var problems []Problem
	for _, k := range slices.Sorted(maps.Keys(obj)) {
		if !slices.Contains(known, k) {
			problems = append(problems, Problem{Path: path + "/" + k, Message: "unknown field"})
		}
	}
	return problems
}

// objects returns the elements of an array value, nil for elements that are
// not objects, so indexes match the document.
func objects(v any) []map[string]any {
	arr, _ := v.([]any)
	out := make([]map[string]any, len(arr))
	for i, e := range arr {
		out[i], _ = e.(map[string]any)
	}
	return out
}
