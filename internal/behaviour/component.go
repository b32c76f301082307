package behaviour

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Component is the base interface for all components
// Components can be attached to game objects
type Component interface {
	// Lifecycle methods
	Awake()                   // Called when component is first attached
	Start()                   // Called before first Update (on registration)
	Update(deltaTime float32) // Called every frame with the frame time in seconds
	OnDestroy()               // Called when component/object is destroyed

	// Component info
	GetEnabled() bool
	SetEnabled(bool)
	GetGameObject() *GameObject
	SetGameObject(*GameObject)
}

// Disabler is implemented by components that must release work when their
// object is deactivated or destroyed
type Disabler interface {
	OnDisable()
}

// BaseComponent provides default implementations for all Component methods
// Components embed this to only override methods they need
type BaseComponent struct {
	enabled    bool
	gameObject *GameObject
}

func (c *BaseComponent) Awake()         {}
func (c *BaseComponent) Start()         {}
func (c *BaseComponent) Update(float32) {}
func (c *BaseComponent) OnDestroy()     {}

func (c *BaseComponent) GetEnabled() bool {
	return c.enabled
}

func (c *BaseComponent) SetEnabled(enabled bool) {
	c.enabled = enabled
}

func (c *BaseComponent) GetGameObject() *GameObject {
	return c.gameObject
}

func (c *BaseComponent) SetGameObject(obj *GameObject) {
	c.gameObject = obj
}

// GameObject represents an object in the scene
type GameObject struct {
	Name       string
	Active     bool
	Transform  *Transform
	Components []Component
	destroyed  bool
}

// Transform holds the local placement of an object relative to its parent
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Parent   *Transform
	Children []*Transform
}

func (t *Transform) Translate(delta mgl32.Vec3) {
	t.Position = t.Position.Add(delta)
}

// Rotate applies a rotation about a local axis, angle in radians
func (t *Transform) Rotate(axis mgl32.Vec3, angle float32) {
	rotation := mgl32.QuatRotate(angle, axis)
	t.Rotation = t.Rotation.Mul(rotation)
}

func (t *Transform) SetPosition(pos mgl32.Vec3) {
	t.Position = pos
}

func (t *Transform) SetRotation(rot mgl32.Quat) {
	t.Rotation = rot
}

// SetEulerDegrees sets the local rotation from X, Y, Z angles in degrees,
// applied in Z, X, Y order
func (t *Transform) SetEulerDegrees(x, y, z float32) {
	t.Rotation = EulerDegrees(x, y, z)
}

func (t *Transform) SetScale(scale mgl32.Vec3) {
	t.Scale = scale
}

// SetParent re-parents t, keeping its local values
func (t *Transform) SetParent(parent *Transform) {
	if t.Parent != nil {
		siblings := t.Parent.Children
		for i, c := range siblings {
			if c == t {
				t.Parent.Children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	t.Parent = parent
	if parent != nil {
		parent.Children = append(parent.Children, t)
	}
}

// WorldRotation composes the rotations of every ancestor
func (t *Transform) WorldRotation() mgl32.Quat {
	if t.Parent == nil {
		return t.Rotation
	}
	return t.Parent.WorldRotation().Mul(t.Rotation)
}

// WorldPosition resolves the local position through every ancestor
func (t *Transform) WorldPosition() mgl32.Vec3 {
	if t.Parent == nil {
		return t.Position
	}
	p := t.Parent
	scaled := mgl32.Vec3{t.Position.X() * p.Scale.X(), t.Position.Y() * p.Scale.Y(), t.Position.Z() * p.Scale.Z()}
	return p.WorldPosition().Add(p.WorldRotation().Rotate(scaled))
}

func (t *Transform) Forward() mgl32.Vec3 {
	return t.WorldRotation().Rotate(mgl32.Vec3{0, 0, -1})
}

func (t *Transform) Up() mgl32.Vec3 {
	return t.WorldRotation().Rotate(mgl32.Vec3{0, 1, 0})
}

func (t *Transform) Right() mgl32.Vec3 {
	return t.WorldRotation().Rotate(mgl32.Vec3{1, 0, 0})
}

// EulerDegrees builds a quaternion from X, Y, Z angles in degrees.
// Z is applied first, then X, then Y.
func EulerDegrees(x, y, z float32) mgl32.Quat {
	qx := mgl32.QuatRotate(mgl32.DegToRad(x), mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(mgl32.DegToRad(y), mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(mgl32.DegToRad(z), mgl32.Vec3{0, 0, 1})
	return qy.Mul(qx).Mul(qz)
}

// GameObject methods
func NewGameObject(name string) *GameObject {
	obj := &GameObject{
		Name:       name,
		Active:     true,
		Components: make([]Component, 0),
		Transform: &Transform{
			Position: mgl32.Vec3{0, 0, 0},
			Rotation: mgl32.QuatIdent(),
			Scale:    mgl32.Vec3{1, 1, 1},
		},
	}
	return obj
}

func (obj *GameObject) AddComponent(component Component) {
	component.SetGameObject(obj)
	component.SetEnabled(true)
	obj.Components = append(obj.Components, component)
	component.Awake()
}

// GetComponent returns the first component of type T on obj
func GetComponent[T Component](obj *GameObject) (T, bool) {
	var zero T
	if obj == nil {
		return zero, false
	}
	for _, comp := range obj.Components {
		if typed, ok := comp.(T); ok {
			return typed, true
		}
	}
	return zero, false
}

func (obj *GameObject) RemoveComponent(component Component) {
	for i, comp := range obj.Components {
		if comp == component {
			if d, ok := comp.(Disabler); ok && comp.GetEnabled() {
				d.OnDisable()
			}
			comp.OnDestroy()
			obj.Components = append(obj.Components[:i], obj.Components[i+1:]...)
			return
		}
	}
}

// SetActive toggles the object. Deactivation notifies enabled components
// implementing Disabler.
func (obj *GameObject) SetActive(active bool) {
	if obj.Active == active {
		return
	}
	obj.Active = active
	if active {
		return
	}
	for _, comp := range obj.Components {
		if d, ok := comp.(Disabler); ok && comp.GetEnabled() {
			d.OnDisable()
		}
	}
}

// Destroyed reports whether Destroy has run on this object
func (obj *GameObject) Destroyed() bool {
	return obj == nil || obj.destroyed
}

func (obj *GameObject) internalUpdate(deltaTime float32) {
	if !obj.Active {
		return
	}

	for _, comp := range obj.Components {
		if comp.GetEnabled() {
			comp.Update(deltaTime)
		}
	}
}

func (obj *GameObject) internalStart() {
	if !obj.Active {
		return
	}

	for _, comp := range obj.Components {
		if comp.GetEnabled() {
			comp.Start()
		}
	}
}

func (obj *GameObject) Destroy() {
	if obj.destroyed {
		return
	}
	obj.SetActive(false)
	for _, comp := range obj.Components {
		comp.OnDestroy()
	}
	obj.destroyed = true
}
