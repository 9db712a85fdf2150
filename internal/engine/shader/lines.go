package shader

// LineVertex transforms line and point geometry, scattering vertices while
// the material is not yet assembled.
const LineVertex = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uViewProj;
uniform mat4 uModel;
uniform float uAssemble;
uniform float uPointSize;

out vec3 vWorld;

vec3 scatter(int id) {
	float a = fract(sin(float(id) * 12.9898) * 43758.5453);
	float b = fract(sin(float(id) * 78.233) * 12543.1234);
	float c = fract(sin(float(id) * 39.425) * 24634.6345);
	return (vec3(a, b, c) * 2.0 - 1.0) * 0.3;
}

void main() {
	vec3 pos = mix(aPos + scatter(gl_VertexID), aPos, uAssemble);
	vec4 world = uModel * vec4(pos, 1.0);
	vWorld = world.xyz;
	gl_Position = uViewProj * world;
	gl_PointSize = uPointSize;
}
`

// LineFragment shades with a flat color brightened by up to four point
// lights.
const LineFragment = `
#version 410 core

#define MAX_LIGHTS 4

in vec3 vWorld;

uniform vec3 uColor;
uniform float uOpacity;
uniform int uLightCount;
uniform vec3 uLightPos[MAX_LIGHTS];
uniform vec3 uLightColor[MAX_LIGHTS];
uniform float uLightRange[MAX_LIGHTS];

out vec4 FragColor;

void main() {
	vec3 light = vec3(0.0);
	for (int i = 0; i < uLightCount; i++) {
		float d = distance(vWorld, uLightPos[i]);
		float k = uLightRange[i] > 0.0 ? clamp(1.0 - d / uLightRange[i], 0.0, 1.0) : 1.0;
		light += uLightColor[i] * k * k;
	}
	FragColor = vec4(uColor + light * 0.25, uOpacity);
}
`
