package wildfire

import (
	"strconv"

	"github.com/vincenzocorso/forest-fire-simulation/internal/core"
)

// Parameters describes the model's configuration for presentation.
func (m *Model) Parameters() core.ParameterSnapshot {
	cfg := m.cfg
	slope := cfg.Slope
	if slope == "" {
		if rc, err := LookupRule(cfg.Rule); err == nil {
			slope = rc.Slope
		}
	}
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", cfg.Width),
				intParam("h", "Height", cfg.Height),
				int64Param("seed", "Seed", m.view.Seed),
				floatParam("max_ros", "Max rate of spread", m.view.MaxROS),
			},
		},
		{
			Name: "Rule",
			Params: []core.Parameter{
				stringParam("rule", "Propagation rule", m.rule.Name()),
				stringParam("slope", "Slope function", slope),
				floatParam("alpha", "Slope steepness", cfg.Params.Alpha),
			},
		},
		{
			Name: "Wind",
			Params: []core.Parameter{
				floatParam("c1", "Wind speed weight", m.view.Wind.C1),
				floatParam("c2", "Wind alignment weight", m.view.Wind.C2),
				floatParam("gust", "Gust probability", m.view.Wind.GustProbability),
			},
		},
		{
			Name: "Schedule",
			Params: []core.Parameter{
				intParam("start_day", "Start day", m.startDay),
				intParam("steps_per_day", "Steps per day", m.stepsPerDay),
				intParam("workers", "Workers", cfg.Workers),
				intParam("batch", "Batch size", cfg.BatchSize),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// SetFloatParameter updates the wind calibration between steps.
func (m *Model) SetFloatParameter(key string, value float64) bool {
	if value < 0 {
		return false
	}
	switch key {
	case "c1":
		m.view.Wind.C1 = value
	case "c2":
		m.view.Wind.C2 = value
	case "gust":
		if value > 1 {
			value = 1
		}
		m.view.Wind.GustProbability = value
	default:
		return false
	}
	m.cfg.Params.C1 = m.view.Wind.C1
	m.cfg.Params.C2 = m.view.Wind.C2
	m.cfg.Params.GustProbability = m.view.Wind.GustProbability
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}

// ParameterControls lists the wind calibration knobs adjustable while running.
func (m *Model) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "c1", Label: "Wind c1", Type: core.ParamTypeFloat, Step: 0.125, HasMin: true},
		{Key: "c2", Label: "Wind c2", Type: core.ParamTypeFloat, Step: 0.125, HasMin: true},
		{Key: "gust", Label: "Gust prob.", Type: core.ParamTypeFloat, Step: 0.05, HasMin: true, HasMax: true, Max: 1},
	}
}
