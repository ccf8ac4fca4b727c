package builtin

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/emersion/go-ical"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/priora/internal/engine/sdk"
	"github.com/felixgeelhaar/priora/internal/engine/types"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatICS  = "ics"
)

// Formats lists the supported export formats.
var Formats = []string{FormatCSV, FormatJSON, FormatYAML, FormatTOML, FormatICS}

var csvHeader = []string{"id", "title", "due_date", "estimated_hours", "importance", "score"}

// exportRow is the flattened task used by the structured formats.
type exportRow struct {
	ID             string   `json:"id" yaml:"id" toml:"id"`
	Title          string   `json:"title" yaml:"title" toml:"title"`
	DueDate        string   `json:"due_date,omitempty" yaml:"due_date,omitempty" toml:"due_date,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours" yaml:"estimated_hours" toml:"estimated_hours,omitempty"`
	Importance     int      `json:"importance" yaml:"importance" toml:"importance"`
	Dependencies   []string `json:"dependencies" yaml:"dependencies" toml:"dependencies"`
	Status         string   `json:"status,omitempty" yaml:"status,omitempty" toml:"status,omitempty"`
	Score          *float64 `json:"score" yaml:"score" toml:"score,omitempty"`
}

type exportDoc struct {
	Tasks []exportRow `json:"tasks" yaml:"tasks" toml:"tasks"`
}

// Export serializes the tasks. An empty format selects CSV.
func (e *DefaultScoringEngine) Export(ctx context.Context, req types.ExportRequest) (*types.ExportResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]exportRow, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		deps := t.Dependencies
		if deps == nil {
			deps = []string{}
		}
		rows = append(rows, exportRow{
			ID:             t.ID,
			Title:          t.Title,
			DueDate:        t.DueDate,
			EstimatedHours: t.EstimatedHours,
			Importance:     t.Importance,
			Dependencies:   deps,
			Status:         t.Status,
			Score:          t.Score,
		})
	}

	format := strings.ToLower(strings.TrimSpace(req.Format))
	switch format {
	case "", FormatCSV:
		data, err := encodeCSV(rows)
		if err != nil {
			return nil, err
		}
		return &types.ExportResponse{ContentType: "text/csv", Data: data}, nil
	case FormatJSON:
		data, err := json.MarshalIndent(exportDoc{Tasks: rows}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json export: %w", err)
		}
		return &types.ExportResponse{ContentType: "application/json", Data: data}, nil
	case FormatYAML:
		data, err := yaml.Marshal(exportDoc{Tasks: rows})
		if err != nil {
			return nil, fmt.Errorf("encode yaml export: %w", err)
		}
		return &types.ExportResponse{ContentType: "application/yaml", Data: data}, nil
	case FormatTOML:
		data, err := toml.Marshal(exportDoc{Tasks: rows})
		if err != nil {
			return nil, fmt.Errorf("encode toml export: %w", err)
		}
		return &types.ExportResponse{ContentType: "application/toml", Data: data}, nil
	case FormatICS:
		data, err := e.encodeICS(rows)
		if err != nil {
			return nil, err
		}
		return &types.ExportResponse{ContentType: "text/calendar", Data: data}, nil
	default:
		return nil, fmt.Errorf("%w: %q", sdk.ErrUnsupportedFormat, req.Format)
	}
}

func encodeCSV(rows []exportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("encode csv export: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.ID,
			r.Title,
			r.DueDate,
			formatOptional(r.EstimatedHours),
			strconv.Itoa(r.Importance),
			formatOptional(r.Score),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("encode csv export: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode csv export: %w", err)
	}
	return buf.Bytes(), nil
}

// encodeICS emits one all-day event per scheduled task. Unscheduled tasks are skipped.
func (e *DefaultScoringEngine) encodeICS(rows []exportRow) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Priora//Task Export//EN")

	stamp := e.now().UTC()
	for _, r := range rows {
		due, ok := parseDue(r.DueDate)
		if !ok {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, r.ID+"@priora")
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		event.Props.SetDate(ical.PropDateTimeStart, due)
		event.Props.SetDate(ical.PropDateTimeEnd, due.AddDate(0, 0, 1))
		event.Props.SetText(ical.PropSummary, r.Title)

		description := fmt.Sprintf("Importance: %d/10", r.Importance)
		if r.EstimatedHours != nil {
			description += fmt.Sprintf("\nEstimate: %gh", *r.EstimatedHours)
		}
		if r.Score != nil {
			description += fmt.Sprintf("\nScore: %.2f", *r.Score)
		}
		event.Props.SetText(ical.PropDescription, description)

		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode ics export: %w", err)
	}
	return buf.Bytes(), nil
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
