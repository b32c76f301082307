package behaviour

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewGameObject(t *testing.T) {
	obj := NewGameObject("TestObject")

	if obj == nil {
		t.Fatal("NewGameObject returned nil")
	}

	if obj.Name != "TestObject" {
		t.Errorf("Expected name 'TestObject', got '%s'", obj.Name)
	}

	if !obj.Active {
		t.Error("New GameObject should be active by default")
	}

	if obj.Transform == nil {
		t.Fatal("Transform should not be nil")
	}

	if obj.Transform.Position != (mgl32.Vec3{0, 0, 0}) {
		t.Errorf("Expected position (0,0,0), got %v", obj.Transform.Position)
	}

	if obj.Transform.Scale != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("Expected scale (1,1,1), got %v", obj.Transform.Scale)
	}
}

func TestTransformTranslate(t *testing.T) {
	transform := &Transform{
		Position: mgl32.Vec3{5, 5, 5},
		Scale:    mgl32.Vec3{1, 1, 1},
	}

	transform.Translate(mgl32.Vec3{1, 2, 3})

	expected := mgl32.Vec3{6, 7, 8}
	if transform.Position != expected {
		t.Errorf("Expected position %v, got %v", expected, transform.Position)
	}
}

func TestEulerDegreesAboutX(t *testing.T) {
	q := EulerDegrees(90, 0, 0)

	// Forward (0,0,-1) pitched 90 degrees about X points up
	got := q.Rotate(mgl32.Vec3{0, 0, -1})
	if !got.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-5) {
		t.Errorf("Expected (0,1,0), got %v", got)
	}
}

func TestWorldTransformThroughParent(t *testing.T) {
	parent := NewGameObject("Parent")
	child := NewGameObject("Child")
	child.Transform.SetParent(parent.Transform)
	child.Transform.SetPosition(mgl32.Vec3{0, 0, -200})

	parent.Transform.SetEulerDegrees(90, 0, 0)

	got := child.Transform.WorldPosition()
	if !got.ApproxEqualThreshold(mgl32.Vec3{0, 200, 0}, 1e-3) {
		t.Errorf("Expected child at (0,200,0), got %v", got)
	}

	if len(parent.Transform.Children) != 1 {
		t.Errorf("Expected 1 child, got %d", len(parent.Transform.Children))
	}

	child.Transform.SetParent(nil)
	if len(parent.Transform.Children) != 0 {
		t.Errorf("Expected 0 children after unparent, got %d", len(parent.Transform.Children))
	}
}

type MockComponent struct {
	BaseComponent
	startCalled   bool
	updateCalled  bool
	lastDelta     float32
	disableCalls  int
	destroyCalled bool
}

func (m *MockComponent) Start() {
	m.startCalled = true
}

func (m *MockComponent) Update(deltaTime float32) {
	m.updateCalled = true
	m.lastDelta = deltaTime
}

func (m *MockComponent) OnDisable() {
	m.disableCalls++
}

func (m *MockComponent) OnDestroy() {
	m.destroyCalled = true
}

func TestGameObjectAddComponent(t *testing.T) {
	obj := NewGameObject("Test")
	comp := &MockComponent{}

	obj.AddComponent(comp)

	if len(obj.Components) != 1 {
		t.Errorf("Expected 1 component, got %d", len(obj.Components))
	}

	if comp.GetGameObject() != obj {
		t.Error("Component's GameObject reference not set correctly")
	}
}

func TestGetComponentByType(t *testing.T) {
	obj := NewGameObject("Test")
	light := NewLightComponent()
	obj.AddComponent(&MockComponent{})
	obj.AddComponent(light)

	got, ok := GetComponent[*LightComponent](obj)
	if !ok || got != light {
		t.Error("GetComponent should find the light component")
	}

	if _, ok := GetComponent[*SpriteComponent](obj); ok {
		t.Error("GetComponent should not find a missing component type")
	}
}

func TestGameObjectRemoveComponent(t *testing.T) {
	obj := NewGameObject("Test")
	comp := &MockComponent{}

	obj.AddComponent(comp)
	obj.RemoveComponent(comp)

	if len(obj.Components) != 0 {
		t.Errorf("Expected 0 components after removal, got %d", len(obj.Components))
	}
	if comp.disableCalls != 1 || !comp.destroyCalled {
		t.Error("Removing a component should disable and destroy it")
	}
}

func TestSetActiveFalseDisablesComponents(t *testing.T) {
	obj := NewGameObject("Test")
	comp := &MockComponent{}
	obj.AddComponent(comp)

	obj.SetActive(false)
	obj.SetActive(false)

	if comp.disableCalls != 1 {
		t.Errorf("Expected 1 OnDisable call, got %d", comp.disableCalls)
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	obj := NewGameObject("Test")
	comp := &MockComponent{}
	obj.AddComponent(comp)

	obj.Destroy()
	obj.Destroy()

	if !obj.Destroyed() {
		t.Error("Object should report destroyed")
	}
	if comp.disableCalls != 1 {
		t.Errorf("Expected 1 OnDisable call, got %d", comp.disableCalls)
	}
}

func TestLightDirectionFollowsTransform(t *testing.T) {
	obj := NewGameObject("Sun")
	light := NewLightComponent()
	obj.AddComponent(light)

	obj.Transform.SetEulerDegrees(-90, 0, 0)

	got := light.Direction()
	if !got.ApproxEqualThreshold(mgl32.Vec3{0, -1, 0}, 1e-5) {
		t.Errorf("Expected light pointing down, got %v", got)
	}
}
