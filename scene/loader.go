// Package scene builds worlds from JSON scene descriptions.
package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/canrunner/config"
	"github.com/plus3/canrunner/ecs"
	"go.uber.org/zap"
)

// Loader deserializes entity arrays into a world. It owns the occupancy grid
// used to scatter duplicates, so one Loader should serve one level at a time.
type Loader struct {
	grid      config.GridConfig
	occupancy *Occupancy
	rng       *rand.Rand
	logger    *zap.Logger
}

type Option func(*Loader)

// WithLogger sets the logger used for skipped input
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithRand sets the random source used for lane placement
func WithRand(rng *rand.Rand) Option {
	return func(l *Loader) { l.rng = rng }
}

func NewLoader(grid config.GridConfig, opts ...Option) *Loader {
	l := &Loader{
		grid:      grid,
		occupancy: NewOccupancy(grid.Rows, grid.Columns),
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Occupancy exposes the loader's grid
func (l *Loader) Occupancy() *Occupancy {
	return l.occupancy
}

// Reset clears the occupancy grid before a new level is loaded
func (l *Loader) Reset() {
	l.occupancy.Reset()
}

type entityDescription struct {
	Name       string            `json:"name"`
	Position   *mgl32.Vec3       `json:"position"`
	Rotation   *mgl32.Vec3       `json:"rotation"`
	Scale      *mgl32.Vec3       `json:"scale"`
	Components []json.RawMessage `json:"components"`
	Children   json.RawMessage   `json:"children"`
	Duplicates *duplicates       `json:"duplicates"`
}

// duplicates is the [count, spacing, useRandomLane] triple. The lane flag
// may be written as a number or a boolean.
type duplicates struct {
	Count         int
	Spacing       float32
	UseRandomLane bool
}

func (d *duplicates) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("duplicates: %w", err)
	}

	var values [3]float64
	for i := 0; i < len(parts) && i < 3; i++ {
		var b bool
		if err := json.Unmarshal(parts[i], &b); err == nil {
			if b {
				values[i] = 1
			}
			continue
		}
		if err := json.Unmarshal(parts[i], &values[i]); err != nil {
			return fmt.Errorf("duplicates[%d]: %w", i, err)
		}
	}

	d.Count = int(values[0])
	d.Spacing = float32(values[1])
	d.UseRandomLane = values[2] != 0
	return nil
}

func isArray(data json.RawMessage) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isObject(data json.RawMessage) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// Deserialize creates one entity per element of the JSON array data, parented to
// parent (0 for roots). Nested "children" arrays recurse with the new entity as
// parent; "duplicates" adds copies placed in a line or scattered over the grid.
// Input that is not an array is ignored.
func (l *Loader) Deserialize(world *ecs.World, data json.RawMessage, parent ecs.EntityId) error {
	if !isArray(data) {
		l.logger.Debug("ignoring non-array entity list", zap.Int("bytes", len(data)))
		return nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	for _, element := range elements {
		var desc entityDescription
		if isObject(element) {
			if err := json.Unmarshal(element, &desc); err != nil {
				return fmt.Errorf("scene: entity: %w", err)
			}
		}

		e, err := l.spawn(world, &desc, parent)
		if err != nil {
			return err
		}

		if desc.Children != nil {
			if err := l.Deserialize(world, desc.Children, e.Id()); err != nil {
				return fmt.Errorf("%s: %w", desc.Name, err)
			}
		}

		if desc.Duplicates != nil {
			if err := l.duplicate(world, &desc, parent); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Loader) duplicate(world *ecs.World, desc *entityDescription, parent ecs.EntityId) error {
	d := desc.Duplicates
	for i := 1; i < d.Count; i++ {
		e, err := l.spawn(world, desc, parent)
		if err != nil {
			return err
		}

		pos := &e.LocalTransform.Position
		if d.UseRandomLane {
			row, col, err := l.occupancy.Claim(l.rng)
			if err != nil {
				world.Remove(e.Id())
				return fmt.Errorf("duplicate %d of %q: %w", i, desc.Name, err)
			}
			pos[0] += -float32(row) * l.grid.SliceSize
			pos[2] = l.grid.LaneOrigin + float32(col)*l.grid.LaneWidth
		} else {
			pos[0] += -float32(i) * d.Spacing
		}
	}
	return nil
}

// spawn creates a single entity from desc without its children or duplicates.
func (l *Loader) spawn(world *ecs.World, desc *entityDescription, parent ecs.EntityId) (*ecs.Entity, error) {
	e := world.Add()
	if parent != 0 {
		if err := world.SetParent(e.Id(), parent); err != nil {
			world.Remove(e.Id())
			return nil, fmt.Errorf("scene: %q: %w", desc.Name, err)
		}
	}

	e.Name = desc.Name
	if desc.Position != nil {
		e.LocalTransform.Position = *desc.Position
	}
	if desc.Rotation != nil {
		for i, deg := range desc.Rotation {
			e.LocalTransform.Rotation[i] = mgl32.DegToRad(deg)
		}
	}
	if desc.Scale != nil {
		e.LocalTransform.Scale = *desc.Scale
	}

	for _, data := range desc.Components {
		if err := l.addComponent(world, e.Id(), data); err != nil {
			world.Remove(e.Id())
			return nil, fmt.Errorf("scene: %q: %w", desc.Name, err)
		}
	}
	return e, nil
}

func (l *Loader) addComponent(world *ecs.World, id ecs.EntityId, data json.RawMessage) error {
	var header struct {
		Type string `json:"type"`
	}
	if !isObject(data) {
		return nil
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return err
	}

	component, ok := world.Registry().New(header.Type)
	if !ok {
		l.logger.Warn("skipping unknown component type", zap.String("type", header.Type))
		return nil
	}
	if err := component.Deserialize(data); err != nil {
		return err
	}
	return world.AddComponent(id, component)
}
