package diagfmt

import (
	"encoding/json"
	"io"

	"csafe/internal/diag"
	"csafe/internal/source"
)

// sarifLocation is one entry of a SARIF result's physicalLocation list.
type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine,omitempty"`
	StartColumn uint32 `json:"startColumn,omitempty"`
	EndLine     uint32 `json:"endLine,omitempty"`
	EndColumn   uint32 `json:"endColumn,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifRule struct {
	ID   string       `json:"id"`
	Name string       `json:"name,omitempty"`
	Help sarifMessage `json:"fullDescription"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

// Sarif renders a Bag as a SARIF 2.1.0 log, for consumption by code-scanning
// tooling that ingests SARIF (GitHub code scanning, most CI dashboards).
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) {
	if bag == nil || fs == nil {
		return
	}
	items := bag.Items()
	results := make([]sarifResult, 0, len(items))
	seenRules := make(map[string]diag.Code, 8)
	for _, d := range items {
		if d == nil {
			continue
		}
		ruleID := d.Code.ID()
		seenRules[ruleID] = d.Code
		results = append(results, sarifResult{
			RuleID:    ruleID,
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: sarifLocations(d, fs),
		})
	}

	rules := make([]sarifRule, 0, len(seenRules))
	for id, code := range seenRules {
		rules = append(rules, sarifRule{ID: id, Name: code.Title(), Help: sarifMessage{Text: code.Title()}})
	}

	log := sarifLog{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    meta.ToolName,
				Version: meta.ToolVersion,
				Rules:   rules,
			}},
			Invocations: []sarifInvocation{{
				Arguments:           meta.InvocationArgs,
				ExecutionSuccessful: !bag.HasErrors(),
			}},
			Results: results,
		}},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(log)
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

func sarifLocations(d *diag.Diagnostic, fs *source.FileSet) []sarifLocation {
	locs := make([]sarifLocation, 0, 1+len(d.Notes))
	if loc, ok := sarifLocationFor(d.Primary, fs); ok {
		locs = append(locs, loc)
	}
	for _, note := range d.Notes {
		if loc, ok := sarifLocationFor(note.Span, fs); ok {
			msg := note.Msg
			loc.Message = &sarifMessage{Text: msg}
			locs = append(locs, loc)
		}
	}
	return locs
}

func sarifLocationFor(span source.Span, fs *source.FileSet) (sarifLocation, bool) {
	f := fs.Get(span.File)
	if f == nil {
		return sarifLocation{}, false
	}
	start, end := fs.Resolve(span)
	uri := f.FormatPath("relative", fs.BaseDir())
	return sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifact{URI: uri},
			Region: sarifRegion{
				StartLine:   start.Line,
				StartColumn: start.Col,
				EndLine:     end.Line,
				EndColumn:   end.Col,
			},
		},
	}, true
}
