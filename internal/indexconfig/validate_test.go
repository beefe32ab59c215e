package indexconfig

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const jsoncConfiguration = `{
	"shared_steps": [
		{
			"root": "/",
			"image": "node:12",
			"commands": [
				"yarn install --frozen-lockfile --non-interactive",
			],
		}
	],
	"index_jobs": [
		{
			"steps": [
				{
					// Comments are allowed
					"image": "go:latest",
					"commands": ["go mod vendor"],
				}
			],
			"indexer": "lsif-go",
			"indexer_args": ["--no-animation"],
		},
		{
			"root": "web/",
			"indexer": "lsif-tsc",
			"indexer_args": ["-p", "."],
			"outfile": "lsif.dump",
		},
	]
}`

func TestParse_JSONC(t *testing.T) {
	cfg, err := Parse(jsoncConfiguration)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Configuration{
		SharedSteps: []DockerStep{{
			Root:     "/",
			Image:    "node:12",
			Commands: []string{"yarn install --frozen-lockfile --non-interactive"},
		}},
		IndexJobs: []IndexJob{
			{
				Steps:       []DockerStep{{Image: "go:latest", Commands: []string{"go mod vendor"}}},
				Indexer:     "lsif-go",
				IndexerArgs: []string{"--no-animation"},
			},
			{
				Root:        "web/",
				Indexer:     "lsif-tsc",
				IndexerArgs: []string{"-p", "."},
				Outfile:     "lsif.dump",
			},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("configuration mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "empty", content: "", want: nil},
		{name: "whitespace", content: "  \n", want: nil},
		{name: "valid jsonc", content: jsoncConfiguration, want: nil},
		{name: "empty object", content: "{}", want: nil},
		{
			name:    "missing indexer and image",
			content: `{"index_jobs": [{"root": "a/", "steps": [{"commands": ["x"]}]}]}`,
			want: []string{
				"/index_jobs/0/indexer: indexer is required",
				"/index_jobs/0/steps/0/image: image is required",
			},
		},
		{
			name:    "unknown field",
			content: `{"index_jobs": [], "indexers": []}`,
			want:    []string{"/indexers: unknown field"},
		},
		{
			name:    "unknown fields at every level",
			content: `{"foo": 1, "shared_steps": [{"image": "x", "cmd": []}], "index_jobs": [{"indexer": "x", "bar": 2, "steps": [{"image": "y", "baz": 3}]}], "abc": 0}`,
			want: []string{
				"/abc: unknown field",
				"/foo: unknown field",
				"/shared_steps/0/cmd: unknown field",
				"/index_jobs/0/bar: unknown field",
				"/index_jobs/0/steps/0/baz: unknown field",
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			for _, p := range Validate(tc.content) {
				got = append(got, p.String())
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("problems mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidate_SyntaxError(t *testing.T) {
	problems := Validate(`{"index_jobs": [}`)
	if len(problems) != 1 || !strings.HasPrefix(problems[0].Message, "invalid JSON at offset") {
		t.Fatalf("problems=%v, want one syntax problem", problems)
	}
}

func TestValidate_TypeError(t *testing.T) {
	problems := Validate(`{"index_jobs": {"indexer": "x"}}`)
	if len(problems) != 1 || !strings.Contains(problems[0].Message, "expected") {
		t.Fatalf("problems=%v, want one type problem", problems)
	}
}
