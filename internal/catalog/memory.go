package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/Abdalla2024/stretchApp/internal/domain"
)

// Memory is an in-process catalog keyed by category id.
type Memory struct {
	mu         sync.RWMutex
	categories map[string][]domain.Exercise
}

func NewMemory() *Memory {
	return &Memory{categories: make(map[string][]domain.Exercise)}
}

// SetCategory replaces the exercise sequence for a category. Ordinals
// are normalized to the slice order.
func (m *Memory) SetCategory(categoryID string, exercises []domain.Exercise) {
	snapshot := make([]domain.Exercise, len(exercises))
	copy(snapshot, exercises)
	for i := range snapshot {
		snapshot[i].Ordinal = i
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[categoryID] = snapshot
}

// Categories returns the known category ids.
func (m *Memory) Categories() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.categories))
	for id := range m.categories {
		ids = append(ids, id)
	}
	return ids
}

func (m *Memory) FetchExercises(ctx context.Context, categoryID string) ([]domain.Exercise, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch exercises: %w", ErrUnavailable)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	exercises, ok := m.categories[categoryID]
	if !ok {
		return nil, fmt.Errorf("category %q: %w", categoryID, ErrUnavailable)
	}

	out := make([]domain.Exercise, len(exercises))
	copy(out, exercises)
	return out, nil
}

// Default returns the built-in stretch catalog used by the server when
// no external catalog is wired in.
func Default() *Memory {
	m := NewMemory()

	m.SetCategory("neck", []domain.Exercise{
		{ID: "neck-roll", Name: "Neck Roll", Instructions: "Slowly roll your head in a full circle, keeping shoulders relaxed.", DurationSec: 30},
		{ID: "chin-tuck", Name: "Chin Tuck", Instructions: "Draw your chin straight back, hold, and release.", DurationSec: 20},
		{ID: "ear-to-shoulder", Name: "Ear to Shoulder", Instructions: "Tilt your head toward one shoulder until you feel a stretch, then switch.", DurationSec: 40},
		{ID: "levator-stretch", Name: "Levator Stretch", Instructions: "Look down toward your armpit and apply gentle overhead pressure.", DurationSec: 30, Restricted: true},
	})

	m.SetCategory("shoulders", []domain.Exercise{
		{ID: "shoulder-shrug", Name: "Shoulder Shrug", Instructions: "Raise both shoulders toward your ears, hold, and drop.", DurationSec: 20},
		{ID: "cross-body", Name: "Cross-Body Stretch", Instructions: "Pull one arm across your chest with the opposite hand.", DurationSec: 30},
		{ID: "doorway-stretch", Name: "Doorway Stretch", Instructions: "Brace forearms on a doorway and lean forward gently.", DurationSec: 40, Restricted: true},
		{ID: "thread-needle", Name: "Thread the Needle", Instructions: "From all fours, slide one arm under your body and rotate.", DurationSec: 45, Restricted: true},
	})

	m.SetCategory("hamstrings", []domain.Exercise{
		{ID: "standing-fold", Name: "Standing Forward Fold", Instructions: "Hinge at the hips and let your arms hang toward the floor.", DurationSec: 45},
		{ID: "seated-reach", Name: "Seated Reach", Instructions: "Sit with legs extended and reach toward your toes.", DurationSec: 40},
		{ID: "single-leg-fold", Name: "Single-Leg Fold", Instructions: "Prop one heel forward, hinge over the straight leg.", DurationSec: 30, Restricted: true},
	})

	m.SetCategory("back", []domain.Exercise{
		{ID: "cat-cow", Name: "Cat-Cow", Instructions: "Alternate arching and rounding your spine on all fours.", DurationSec: 40},
		{ID: "childs-pose", Name: "Child's Pose", Instructions: "Sit back on your heels with arms extended forward.", DurationSec: 60},
		{ID: "supine-twist", Name: "Supine Twist", Instructions: "Lying down, drop both knees to one side and look the other way.", DurationSec: 45, Restricted: true},
		{ID: "cobra", Name: "Cobra", Instructions: "From your stomach, press your chest up while keeping hips down.", DurationSec: 30, Restricted: true},
	})

	return m
}
