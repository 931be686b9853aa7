package api

import (
	"github.com/goliatone/go-importwizard/pkg/mapping"
	"github.com/goliatone/go-importwizard/pkg/wizard"
)

type sessionResponse struct {
	ID         string   `json:"id"`
	State      string   `json:"state"`
	Template   string   `json:"template,omitempty"`
	Columns    []string `json:"columns,omitempty"`
	Templates  []string `json:"templates"`
	CanPreview bool     `json:"canPreview"`
	Warning    string   `json:"warning,omitempty"`
}

type entryResponse struct {
	Kind     string `json:"kind"`
	Column   string `json:"column,omitempty"`
	Index    int    `json:"index,omitempty"`
	Constant string `json:"constant,omitempty"`
}

type mappingResponse struct {
	Predicted map[string]entryResponse `json:"predicted"`
	User      map[string]entryResponse `json:"user"`
	Effective map[string]entryResponse `json:"effective"`
	Missing   []string                 `json:"missing,omitempty"`
	ValueMap  map[string]string        `json:"valueMap,omitempty"`
}

func sessionPayload(session *wizard.Session) sessionResponse {
	resp := sessionResponse{
		ID:         session.ID().String(),
		State:      session.State().String(),
		CanPreview: session.CanPreview(),
	}

	for _, kind := range session.Templates().List() {
		resp.Templates = append(resp.Templates, string(kind))
	}
	if tpl, ok := session.Template(); ok {
		resp.Template = string(tpl.ID)
	}
	for _, col := range session.Columns() {
		resp.Columns = append(resp.Columns, col.Name)
	}
	if warning := session.LastDetectionWarning(); warning != nil {
		resp.Warning = warning.Error()
	}
	return resp
}

func mappingPayload(session *wizard.Session) mappingResponse {
	resp := mappingResponse{
		Predicted: encodeMapping(session.PredictedMapping()),
		User:      encodeMapping(session.UserMapping()),
		Effective: encodeMapping(session.EffectiveMapping()),
		ValueMap:  session.ValueMap(),
	}
	if tpl, ok := session.Template(); ok {
		resp.Missing = session.EffectiveMapping().MissingFields(tpl.RequiredFields())
	}
	return resp
}

func encodeMapping(m mapping.Mapping) map[string]entryResponse {
	out := make(map[string]entryResponse, len(m))
	for field, entry := range m {
		encoded := entryResponse{Kind: string(entry.Kind)}
		switch entry.Kind {
		case mapping.EntryKindColumn:
			encoded.Column = entry.Column.Name
			encoded.Index = entry.Column.Index
		case mapping.EntryKindConstant:
			encoded.Constant = entry.Constant
		}
		out[field] = encoded
	}
	return out
}
