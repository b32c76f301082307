package engine

import (
	"Skycycle/internal/logger"
	"Skycycle/internal/renderer"
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// World is whatever the loop advances once per frame
type World interface {
	Update(deltaTime float64)
}

// SetupFunc builds the world once the GL context exists. The returned sky
// is drawn behind everything and rendered into reflection probes.
type SetupFunc func(host *renderer.GLHost) (World, renderer.SkyDrawer, error)

type Gopher struct {
	Width  int32
	Height int32
	Title  string
	Camera *renderer.Camera
	// EnableCameraInput turns right-button mouse look on or off
	EnableCameraInput bool

	window *glfw.Window
	host   *renderer.GLHost
	world  World
	sky    renderer.SkyDrawer

	lastX, lastY float64
	firstMouse   bool
}

func NewGopher(width, height int, title string) *Gopher {
	return &Gopher{
		Width:             int32(width),
		Height:            int32(height),
		Title:             title,
		EnableCameraInput: true,
		firstMouse:        true,
	}
}

// Render opens the window, runs setup and blocks in the render loop until
// the window is closed
func (gopher *Gopher) Render(x, y int, setup SetupFunc) error {
	gopher.lastX, gopher.lastY = float64(gopher.Width/2), float64(gopher.Height/2)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("could not initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(gopher.Width), int(gopher.Height), gopher.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("could not create glfw window: %w", err)
	}
	gopher.window = window
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return fmt.Errorf("could not initialize OpenGL: %w", err)
	}
	glfw.SwapInterval(1)
	gl.ClearColor(0.0, 0.0, 0.0, 1.0)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)

	window.SetPos(x, y)

	gopher.host = renderer.NewGLHost()
	defer gopher.host.Cleanup()
	logger.Log.Info("OpenGL host ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.Uint32("copySupport", uint32(gopher.host.CopyTextureSupport())))

	world, sky, err := setup(gopher.host)
	if err != nil {
		return fmt.Errorf("scene setup: %w", err)
	}
	gopher.world = world
	gopher.sky = sky
	gopher.host.SetSky(sky)

	gopher.Camera = renderer.NewDefaultCamera(gopher.Width, gopher.Height)
	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	window.SetCursorPosCallback(gopher.mouseCallback)

	gopher.RenderLoop()

	// Release GPU resources while the context is still current
	if c, ok := world.(interface{ Close() }); ok {
		c.Close()
	}
	if c, ok := sky.(interface{ Cleanup() }); ok {
		c.Cleanup()
	}
	return nil
}

func (gopher *Gopher) RenderLoop() {
	var lastTime = glfw.GetTime()
	var lastWidth, lastHeight int32 = -1, -1

	for !gopher.window.ShouldClose() {
		currentTime := glfw.GetTime()
		deltaTime := currentTime - lastTime
		lastTime = currentTime

		// The framebuffer can differ from the window size on high-DPI screens
		fbWidth, fbHeight := gopher.window.GetFramebufferSize()
		gopher.Width, gopher.Height = int32(fbWidth), int32(fbHeight)
		if gopher.Width != lastWidth || gopher.Height != lastHeight {
			gl.Viewport(0, 0, gopher.Width, gopher.Height)
			if gopher.Height > 0 {
				gopher.Camera.SetAspectRatio(float32(gopher.Width) / float32(gopher.Height))
			}
			lastWidth, lastHeight = gopher.Width, gopher.Height
		}

		if gopher.world != nil {
			gopher.world.Update(deltaTime)
		}

		// Probe captures change the viewport, put ours back before drawing
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, gopher.Width, gopher.Height)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		if gopher.sky != nil {
			gopher.sky.Draw(gopher.Camera.GetViewMatrix(), gopher.Camera.GetProjectionMatrix())
		}

		gopher.window.SwapBuffers()
		glfw.PollEvents()
	}
}

// GetWindow returns the GLFW window, nil before Render
func (gopher *Gopher) GetWindow() *glfw.Window {
	return gopher.window
}

// Host returns the OpenGL host, nil before Render
func (gopher *Gopher) Host() *renderer.GLHost {
	return gopher.host
}

func (gopher *Gopher) mouseCallback(w *glfw.Window, xpos, ypos float64) {
	if gopher.EnableCameraInput && w.GetAttrib(glfw.Focused) == glfw.True && w.GetMouseButton(glfw.MouseButtonRight) == glfw.Press {
		if gopher.firstMouse {
			gopher.lastX = xpos
			gopher.lastY = ypos
			gopher.firstMouse = false
			return
		}

		xoffset := xpos - gopher.lastX
		yoffset := gopher.lastY - ypos // Reversed since y-coordinates go from bottom to top
		gopher.lastX = xpos
		gopher.lastY = ypos

		gopher.Camera.ProcessMouseMovement(float32(xoffset), float32(yoffset), true)
	} else {
		gopher.firstMouse = true
	}
}
