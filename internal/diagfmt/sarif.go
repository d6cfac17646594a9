package diagfmt

import (
	"encoding/json"
	"io"

	"cfront/internal/diag"
	"cfront/internal/source"
)

// sarifLocation is one entry of a SARIF result's `locations` array.
type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
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
	ID               string          `json:"id"`
	ShortDescription sarifMessage    `json:"shortDescription"`
	DefaultConfig    *sarifRuleLevel `json:"defaultConfiguration,omitempty"`
}

type sarifRuleLevel struct {
	Level string `json:"level"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
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

const sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

// sarifLevel maps a diagnostic severity onto SARIF's three result levels;
// SARIF has no "verbose" level, so SevVerbose/SevInfo both fold into "note".
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

func sarifLocationFor(span source.Span, fs *source.FileSet, pathMode PathMode) sarifLocation {
	f := fs.Get(span.File)
	var path string
	switch pathMode {
	case PathModeAbsolute:
		path = f.FormatPath("absolute", "")
	case PathModeRelative:
		path = f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		path = f.FormatPath("basename", "")
	default:
		path = f.FormatPath("auto", fs.BaseDir())
	}
	start, end := fs.Resolve(span)
	return sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{URI: path},
			Region: sarifRegion{
				StartLine:   start.Line,
				StartColumn: start.Col,
				EndLine:     end.Line,
				EndColumn:   end.Col,
			},
		},
	}
}

// BuildSarifLog builds the SARIF 2.1.0 log object for bag without
// serializing it, so callers can inspect or further transform it.
func BuildSarifLog(bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) sarifLog {
	items := bag.Items()

	seenRules := make(map[string]bool)
	var rules []sarifRule
	results := make([]sarifResult, 0, len(items))

	for _, d := range items {
		ruleID := d.Code.ID()
		if !seenRules[ruleID] {
			seenRules[ruleID] = true
			rules = append(rules, sarifRule{
				ID:               ruleID,
				ShortDescription: sarifMessage{Text: d.Message},
				DefaultConfig:    &sarifRuleLevel{Level: sarifLevel(d.Severity)},
			})
		}

		locations := []sarifLocation{sarifLocationFor(d.Primary, fs, PathModeAuto)}
		for _, note := range d.Notes {
			loc := sarifLocationFor(note.Span, fs, PathModeAuto)
			msg := note.Msg
			loc.Message = &sarifMessage{Text: msg}
			locations = append(locations, loc)
		}

		results = append(results, sarifResult{
			RuleID:    ruleID,
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: locations,
		})
	}

	toolName := meta.ToolName
	if toolName == "" {
		toolName = "cfront"
	}

	return sarifLog{
		Schema:  sarifSchemaURI,
		Version: "2.1.0",
		Runs: []sarifRun{
			{
				Tool: sarifTool{Driver: sarifDriver{
					Name:    toolName,
					Version: meta.ToolVersion,
					Rules:   rules,
				}},
				Invocations: []sarifInvocation{{
					Arguments:           meta.InvocationArgs,
					ExecutionSuccessful: !bag.HasErrors(),
				}},
				Results: results,
			},
		},
	}
}

// Sarif writes bag's diagnostics as a SARIF 2.1.0 log.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	log := BuildSarifLog(bag, fs, meta)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(log)
}
