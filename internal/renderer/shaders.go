package renderer

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// =============================================================
//
//	Shaders
//
// =============================================================
type Shader struct {
	vertexSource   string
	fragmentSource string
	program        uint32
}

// Compile builds and links the program. Sources must be NUL terminated.
func (shader *Shader) Compile() error {
	vertexShader, err := compileShader(shader.vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(shader.fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return fmt.Errorf("link program: %v", log)
	}

	shader.program = program
	return nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile: %v", log)
	}
	return shader, nil
}

func (shader *Shader) Program() uint32 {
	return shader.program
}

func (shader *Shader) Use() {
	gl.UseProgram(shader.program)
}

func (shader *Shader) Delete() {
	if shader.program != 0 {
		gl.DeleteProgram(shader.program)
		shader.program = 0
	}
}

func (shader *Shader) SetMat4(name string, value mgl32.Mat4) {
	location := gl.GetUniformLocation(shader.program, gl.Str(name+"\x00"))
	gl.UniformMatrix4fv(location, 1, false, &value[0])
}

func (shader *Shader) SetInt(name string, value int32) {
	location := gl.GetUniformLocation(shader.program, gl.Str(name+"\x00"))
	gl.Uniform1i(location, value)
}

var blendedSkyVertexShaderSource = `#version 330 core

layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec2 inTexCoord;

uniform mat4 view;
uniform mat4 projection;
uniform mat4 model;

out vec2 fragTexCoord;

void main() {
    fragTexCoord = inTexCoord;
    vec4 pos = projection * view * model * vec4(inPosition, 1.0);
    // Keep the sky on the far plane
    gl_Position = pos.xyww;
}
` + "\x00"

// Blend mode ordinals must match skyblend: Linear 0, Maximum 1, Add 2,
// Subtract 3, Multiply 4, Smoothstep 5
var blendedSkyFragmentShaderSource = `#version 330 core

in vec2 fragTexCoord;

uniform sampler2D nightFace;
uniform sampler2D dayFace;

uniform vec4 _Tint;
uniform float _Exposure;
uniform float _Blend;
uniform int _BlendMode;
uniform float _InvertColors;

out vec4 FragColor;

void main() {
    vec4 a = texture(nightFace, fragTexCoord);
    vec4 b = texture(dayFace, fragTexCoord);
    float t = clamp(_Blend, 0.0, 1.0);

    vec4 c;
    if (_BlendMode == 1) {
        c = mix(a, max(a, b), t);
    } else if (_BlendMode == 2) {
        c = a + b * t;
    } else if (_BlendMode == 3) {
        c = a - b * t;
    } else if (_BlendMode == 4) {
        c = mix(a, a * b, t);
    } else if (_BlendMode == 5) {
        c = mix(a, b, smoothstep(0.0, 1.0, t));
    } else {
        c = mix(a, b, t);
    }

    vec3 rgb = clamp(c.rgb, 0.0, 1.0) * _Tint.rgb * _Exposure * 2.0;
    rgb = mix(rgb, vec3(1.0) - rgb, _InvertColors);
    FragColor = vec4(rgb, 1.0);
}
` + "\x00"

func InitBlendedSkyShader() Shader {
	return Shader{
		vertexSource:   blendedSkyVertexShaderSource,
		fragmentSource: blendedSkyFragmentShaderSource,
	}
}
