package beacon

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func validHackathon() HackathonFields {
	return HackathonFields{
		EventName:              "Global Game Jam",
		DurationHours:          48,
		TeamFormation:          "team",
		PrizePool:              []string{"1st place: $500"},
		Rules:                  []string{"Code written during the jam only"},
		SubmissionRequirements: []string{"Playable build"},
	}
}

func TestPayloadValidate(t *testing.T) {
	p := Payload{BaseFields: validBase(), ProjectType: TypeHackathon, TypeSpecificData: validHackathon()}
	assert.Empty(t, p.Validate())

	p.Title = "ab"
	issues := p.Validate()
	require.Len(t, issues, 1)
	assert.Equal(t, "title", issues[0].Field)
}

func TestPayloadValidate_TypeMismatch(t *testing.T) {
	p := Payload{BaseFields: validBase(), ProjectType: TypeLearning, TypeSpecificData: validHackathon()}
	issues := p.Validate()
	require.Len(t, issues, 1)
	assert.Equal(t, "type_specific_data", issues[0].Field)
	assert.Contains(t, issues[0].Message, "hackathon")
}

func TestPayloadValidate_MissingData(t *testing.T) {
	p := Payload{BaseFields: validBase(), ProjectType: TypeLearning}
	assert.NotEmpty(t, p.Validate().For("type_specific_data"))

	p = Payload{BaseFields: validBase()}
	assert.NotEmpty(t, p.Validate().For("project_type"))
}

func TestPayloadFields_Flattened(t *testing.T) {
	p := Payload{BaseFields: validBase(), ProjectType: TypeHackathon, TypeSpecificData: validHackathon()}
	f, err := p.Fields()
	require.NoError(t, err)
	assert.Equal(t, "Realtime chess", f["title"])
	assert.Equal(t, []string{"1st place: $500"}, f["prize_pool"])
}

func TestDecodePayload_YAML(t *testing.T) {
	doc := `
title: Realtime chess
description: Build a realtime chess server with spectators
category: games
difficulty: intermediate
team_size_min: 2
team_size_max: 5
is_remote: true
tags: [go, websockets]
project_type: hackathon
status: draft
type_specific_data:
  event_name: Global Game Jam
  duration_hours: 48
  team_formation: team
  prize_pool: ["1st place: $500"]
  rules: ["Code written during the jam only"]
  submission_requirements: ["Playable build"]
`
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(doc), &raw))

	p, err := DecodePayload(raw)
	require.NoError(t, err)
	assert.Equal(t, TypeHackathon, p.ProjectType)
	assert.True(t, p.IsDraft())
	assert.Equal(t, 5, p.TeamSizeMax)
	assert.Equal(t, []string{"go", "websockets"}, p.Tags)
	assert.Equal(t, validHackathon(), p.TypeSpecificData)
	assert.Empty(t, p.Validate())
}

func TestDecodePayload_JSONNumbers(t *testing.T) {
	doc := `{"title":"Compiler club","project_type":"research","type_specific_data":{"duration_months":6}}`
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &raw))

	p, err := DecodePayload(raw)
	require.NoError(t, err)
	rf, ok := p.TypeSpecificData.(ResearchFields)
	require.True(t, ok)
	assert.Equal(t, 6, rf.DurationMonths)
}

func TestDecodePayload_FractionalNumbers(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{name: "base team size", raw: map[string]any{
			"project_type":  "research",
			"team_size_min": 1.9,
			"team_size_max": 4.5,
		}},
		{name: "typed duration", raw: map[string]any{
			"project_type":       "research",
			"type_specific_data": map[string]any{"duration_months": 0.5},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePayload(tt.raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "whole number")
		})
	}
}

func TestDecodePayload_Status(t *testing.T) {
	p, err := DecodePayload(map[string]any{"project_type": "learning", "status": "draft"})
	require.NoError(t, err)
	assert.True(t, p.IsDraft())

	p, err = DecodePayload(map[string]any{"project_type": "learning", "status": nil})
	require.NoError(t, err)
	assert.Empty(t, p.Status)
}

func TestDecodePayload_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{name: "missing type", raw: map[string]any{"title": "x"}, want: "unknown project type"},
		{name: "unknown base key", raw: map[string]any{"project_type": "learning", "owner": "me"}, want: "base fields"},
		{name: "unknown typed key", raw: map[string]any{
			"project_type":       "learning",
			"type_specific_data": map[string]any{"prize_pool": []any{"x"}},
		}, want: "type_specific_data"},
		{name: "typed data not an object", raw: map[string]any{
			"project_type":       "learning",
			"type_specific_data": "oops",
		}, want: "must be an object"},
		{name: "status not a string", raw: map[string]any{"project_type": "learning", "status": 1}, want: "status must be a string"},
		{name: "unknown status", raw: map[string]any{"project_type": "learning", "status": "archived"}, want: "status must be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePayload(tt.raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPayloadMarkdown(t *testing.T) {
	p := Payload{BaseFields: validBase(), ProjectType: TypeHackathon, TypeSpecificData: validHackathon()}
	md := p.Markdown()

	assert.True(t, strings.HasPrefix(md, "# Realtime chess\n"))
	assert.Contains(t, md, "## Hackathon details")
	assert.Contains(t, md, "- Event name: Global Game Jam")
	assert.Contains(t, md, "### Prize pool")
	assert.Contains(t, md, "- 1st place: $500")

	empty := Payload{ProjectType: TypeHackathon}
	assert.Contains(t, empty.Markdown(), "# Untitled beacon")
}

func TestPayloadJSONRoundTrip(t *testing.T) {
	in := Payload{
		BaseFields:       validBase(),
		ProjectType:      TypeHackathon,
		TypeSpecificData: validHackathon(),
		Status:           StatusDraft,
	}
	in.Tags = []string{"go"}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title":"Realtime chess"`)
	assert.Contains(t, string(data), `"prize_pool":["1st place: $500"]`)

	var out Payload
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}
