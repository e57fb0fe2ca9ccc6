package garmin

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/toffan/running/internal/workout"
)

// ErrUnsupportedVariant is returned for a step that is neither a segment nor a repeat.
var ErrUnsupportedVariant = errors.New("unsupported step variant")

// RoleTargets decides what warmup, cooldown and recovery steps send as target.
type RoleTargets int

const (
	// SuppressRoleTargets leaves targetType out entirely.
	SuppressRoleTargets RoleTargets = iota
	// NoTargetForRoles sends an explicit NO_TARGET.
	NoTargetForRoles
	// HeartRateForRoles sends the zone like any other segment.
	HeartRateForRoles
)

// ParseRoleTargets maps the configuration spelling to a policy.
func ParseRoleTargets(s string) (RoleTargets, error) {
	switch s {
	case "", "suppress":
		return SuppressRoleTargets, nil
	case "none":
		return NoTargetForRoles, nil
	case "heart-rate":
		return HeartRateForRoles, nil
	}
	return 0, fmt.Errorf("unknown role target policy %q", s)
}

// Serializer renders workouts into the platform's wire document.
// It holds no per-call state and is safe for concurrent use.
type Serializer struct {
	roleTargets RoleTargets
	sport       SportType
}

type SerializerOption func(*Serializer)

func WithRoleTargets(p RoleTargets) SerializerOption {
	return func(s *Serializer) { s.roleTargets = p }
}

func NewSerializer(opts ...SerializerOption) Serializer {
	s := Serializer{roleTargets: SuppressRoleTargets, sport: Running}
	for _, o := range opts {
		o(&s)
	}
	return s
}

var defaultSerializer = NewSerializer()

// Serialize renders w with the default serializer.
func Serialize(w *workout.Workout) (*Document, error) {
	return defaultSerializer.Serialize(w)
}

// Marshal renders w with the default serializer and encodes it as JSON.
func Marshal(w *workout.Workout) ([]byte, error) {
	return defaultSerializer.Marshal(w)
}

func (s Serializer) Serialize(w *workout.Workout) (*Document, error) {
	// step order is owned by this call and numbered in pre-order from 1
	order := 0
	steps, err := s.renderSteps(w.Steps, &order)
	if err != nil {
		return nil, fmt.Errorf("serialize %q: %w", w.Name, err)
	}
	return &Document{
		SportType:   SportTypeRef{SportTypeID: s.sport},
		WorkoutName: w.Name,
		WorkoutSegments: []WorkoutSegment{{
			SportType:    SportTypeRef{SportTypeID: s.sport},
			WorkoutSteps: steps,
		}},
	}, nil
}

func (s Serializer) Marshal(w *workout.Workout) ([]byte, error) {
	doc, err := s.Serialize(w)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func (s Serializer) renderSteps(steps []workout.Step, order *int) ([]StepDTO, error) {
	out := make([]StepDTO, 0, len(steps))
	for _, st := range steps {
		dto, err := s.renderStep(st, order)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

func (s Serializer) renderStep(st workout.Step, order *int) (StepDTO, error) {
	switch v := st.(type) {
	case *workout.Segment:
		if v != nil {
			return s.renderSegment(v, order), nil
		}
	case *workout.Repeat:
		if v != nil {
			return s.renderRepeat(v, order)
		}
	}
	return StepDTO{}, fmt.Errorf("%w: %T", ErrUnsupportedVariant, st)
}

func (s Serializer) renderSegment(seg *workout.Segment, order *int) StepDTO {
	*order++
	dto := StepDTO{
		Type:        executableStep,
		StepOrder:   *order,
		StepType:    StepTypeRef{StepTypeID: stepTypeOf(seg.Role)},
		Description: seg.Note,
	}

	switch seg.Duration.Kind() {
	case workout.Time:
		dto.EndCondition.ConditionTypeID = EndTime
		dto.EndConditionValue = intPtr(seg.Duration.Seconds())
	case workout.Distance:
		dto.EndCondition.ConditionTypeID = EndDistance
		dto.EndConditionValue = intPtr(seg.Duration.Meters())
	default:
		dto.EndCondition.ConditionTypeID = EndLapButton
	}

	if seg.Role != workout.Interval {
		switch s.roleTargets {
		case SuppressRoleTargets:
			return dto
		case NoTargetForRoles:
			dto.TargetType = &TargetTypeRef{WorkoutTargetTypeID: NoTarget}
			return dto
		}
	}

	dto.TargetType = &TargetTypeRef{WorkoutTargetTypeID: HeartRate}
	if seg.Zone.HasNumber() {
		dto.ZoneNumber = strconv.Itoa(seg.Zone.Number)
	} else {
		dto.TargetValueOne = intPtr(seg.Zone.Low)
		dto.TargetValueTwo = intPtr(seg.Zone.High)
	}
	return dto
}

func (s Serializer) renderRepeat(r *workout.Repeat, order *int) (StepDTO, error) {
	*order++
	dto := StepDTO{
		Type:               repeatGroup,
		StepOrder:          *order,
		StepType:           StepTypeRef{StepTypeID: StepRepeat},
		EndCondition:       EndConditionRef{ConditionTypeID: EndIterations},
		NumberOfIterations: intPtr(r.Count),
	}
	children, err := s.renderSteps(r.Steps, order)
	if err != nil {
		return StepDTO{}, err
	}
	dto.WorkoutSteps = children
	return dto, nil
}

func intPtr(v int) *int { return &v }
