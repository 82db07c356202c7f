// Package config loads simulation scenes from TOML files.
package config

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/akmonengine/rigid"
	"github.com/akmonengine/rigid/actor"
	"github.com/akmonengine/rigid/mesh"
	"github.com/akmonengine/rigid/rotation"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

const (
	ShapeBox     = "box"
	ShapeSphere  = "sphere"
	ShapeMeshBox = "mesh-box"
)

var ErrInvalidScene = errors.New("invalid scene")

// Scene describes a world and the fixed loads applied to its bodies.
type Scene struct {
	Timestep float64 `toml:"timestep"`
	Steps    int     `toml:"steps"`
	Substeps int     `toml:"substeps"`
	Workers  int     `toml:"workers"`
	LogLevel string  `toml:"log_level"`
	Bodies   []Body  `toml:"body"`
}

// Body describes one rigid body of a Scene. Position is the world position
// of the body's center of mass and Orientation a rotation vector.
type Body struct {
	Name            string     `toml:"name"`
	Shape           string     `toml:"shape"`
	HalfExtents     mgl64.Vec3 `toml:"half_extents"`
	Radius          float64    `toml:"radius"`
	Density         float64    `toml:"density"`
	Static          bool       `toml:"static"`
	Position        mgl64.Vec3 `toml:"position"`
	Orientation     mgl64.Vec3 `toml:"orientation"`
	AngularVelocity mgl64.Vec3 `toml:"angular_velocity"`
	Velocity        mgl64.Vec3 `toml:"velocity"`
	Force           mgl64.Vec3 `toml:"force"`
	Torque          mgl64.Vec3 `toml:"torque"`
}

func defaults() Scene {
	return Scene{
		Timestep: 1.0 / 60.0,
		Steps:    600,
		Substeps: 1,
		Workers:  rigid.DEFAULT_WORKERS,
		LogLevel: "info",
	}
}

// Default returns a scene with a single box spinning close to its
// intermediate axis.
func Default() Scene {
	scene := defaults()
	scene.Bodies = []Body{
		{
			Name:            "box",
			Shape:           ShapeMeshBox,
			HalfExtents:     mgl64.Vec3{0.5, 1, 1.5},
			Density:         1,
			AngularVelocity: mgl64.Vec3{0.01, 2, 0.01},
		},
	}

	return scene
}

// Load reads the scene file at path.
func Load(path string) (Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scene{}, errors.Wrap(err, "open scene")
	}
	defer f.Close()

	scene, err := Decode(f)
	if err != nil {
		return Scene{}, errors.Wrapf(err, "load %s", path)
	}

	return scene, nil
}

// Decode reads a TOML scene from r, fills the missing fields with their
// defaults and validates the result. Unknown keys are rejected.
func Decode(r io.Reader) (Scene, error) {
	scene := defaults()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&scene); err != nil {
		return Scene{}, errors.Wrap(err, "decode scene")
	}

	for i := range scene.Bodies {
		body := &scene.Bodies[i]
		if body.Name == "" {
			body.Name = fmt.Sprintf("body-%d", i)
		}
		if body.Shape == "" {
			body.Shape = ShapeBox
		}
		if body.Density == 0 {
			body.Density = 1
		}
	}

	if err := scene.Validate(); err != nil {
		return Scene{}, err
	}

	return scene, nil
}

func invalid(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidScene, format, args...)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Validate checks the scene values without building any body.
func (s Scene) Validate() error {
	if !finite(s.Timestep) || s.Timestep <= 0 {
		return invalid("timestep %g must be positive", s.Timestep)
	}
	if s.Steps < 0 || s.Substeps < 0 || s.Workers < 0 {
		return invalid("steps, substeps and workers must not be negative")
	}
	if _, err := s.Level(); err != nil {
		return invalid("log level %q", s.LogLevel)
	}

	names := make(map[string]bool, len(s.Bodies))
	for _, b := range s.Bodies {
		if names[b.Name] {
			return invalid("duplicate body name %q", b.Name)
		}
		names[b.Name] = true

		if err := b.validate(); err != nil {
			return errors.Wrapf(err, "body %q", b.Name)
		}
	}

	return nil
}

func (b Body) validate() error {
	switch b.Shape {
	case ShapeBox, ShapeMeshBox:
		if b.HalfExtents.X() <= 0 || b.HalfExtents.Y() <= 0 || b.HalfExtents.Z() <= 0 {
			return invalid("half extents %v must be positive", b.HalfExtents)
		}
	case ShapeSphere:
		if b.Radius <= 0 {
			return invalid("radius %g must be positive", b.Radius)
		}
	default:
		return invalid("unknown shape %q", b.Shape)
	}

	if !b.Static && (!finite(b.Density) || b.Density <= 0) {
		return invalid("density %g must be positive", b.Density)
	}

	return nil
}

// Level parses the scene log level.
func (s Scene) Level() (log.Level, error) {
	return log.ParseLevel(s.LogLevel)
}

func (b Body) shape(workers int) actor.ShapeInterface {
	switch b.Shape {
	case ShapeSphere:
		return &actor.Sphere{Radius: b.Radius}
	case ShapeMeshBox:
		return &actor.Mesh{Surface: mesh.Box(b.HalfExtents), Workers: workers}
	default:
		return &actor.Box{HalfExtents: b.HalfExtents}
	}
}

// Build creates the world described by the scene, along with the constant
// load of every body keyed by its ID.
func (s Scene) Build() (*rigid.World, map[uuid.UUID]actor.GeneralizedForce, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	world := &rigid.World{Substeps: s.Substeps, Workers: s.Workers}
	forces := make(map[uuid.UUID]actor.GeneralizedForce, len(s.Bodies))

	for _, b := range s.Bodies {
		bodyType := actor.BodyTypeDynamic
		if b.Static {
			bodyType = actor.BodyTypeStatic
		}

		transform := actor.Transform{
			Position: b.Position,
			Rotation: rotation.Exp(b.Orientation),
		}
		body, err := actor.NewRigidBodyFromShape(transform, b.shape(s.Workers), bodyType, b.Density)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "body %q", b.Name)
		}
		// Shapes are modelled around their center of mass
		body.Transform.Position = b.Position
		body.AngularVelocity = b.AngularVelocity
		body.Velocity = b.Velocity

		world.AddBody(body)
		if b.Force != (mgl64.Vec3{}) || b.Torque != (mgl64.Vec3{}) {
			forces[body.ID] = actor.GeneralizedForce{Torque: b.Torque, Force: b.Force}
		}
	}

	return world, forces, nil
}
