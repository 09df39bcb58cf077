package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
)

func main() {
	output := flag.String("output", ".", "target directory for starter files")
	force := flag.Bool("force", false, "overwrite existing files")
	flag.Parse()

	if err := os.MkdirAll(*output, 0o755); err != nil {
		log.Fatal(err)
	}

	files := map[string]string{
		"morphd.toml": configTemplate,
		"demo.yaml":   yamlTemplate,
		"demo.lua":    luaTemplate,
	}

	for name, content := range files {
		path := filepath.Join(*output, name)
		if err := writeTemplate(path, content, *force); err != nil {
			log.Fatal(err)
		}
		log.Printf("Wrote %s", path)
	}
}

func writeTemplate(path, content string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return &existsError{path: path}
		}
	}
	return os.WriteFile(path, []byte(content), 0o600)
}

type existsError struct {
	path string
}

func (e *existsError) Error() string {
	return "file already exists (use -force to overwrite): " + e.path
}

const configTemplate = `# morphd starter configuration.
# Every value can be overridden with a MORPHD_-prefixed environment
# variable, e.g. MORPHD_MQTT_BROKER.

[mqtt]
broker = "tcp://localhost:1883"
client_id = "morphd"
# username = ""
# password = ""
frame_topic = "morph/frames"
command_topic = "morph/commands"
qos = 1
debounce_ms = 50

[store]
path = "morph.db"
snapshot = "scene"
autosave = true

[stage]
# workers defaults to CPU count minus one.
# workers = 4
# document = "demo.yaml"
pixel_width = 1920
pixel_height = 1080
frame_width = 16.0

[log]
level = "info"
timestamp = true
`

const yamlTemplate = `name: demo
objects:
  - name: dot
    kind: circle
    payload: {center: {x: -4, y: 0}, radius: 0.5}
    material: {stroke: "#ffd866", fill: "#403e41", fill_enabled: true}
  - name: frame
    kind: rect
    payload: {width: 4, height: 2, corner_radius: 0.25}
    material: {stroke: "#78dce8"}
  - name: wave
    kind: path
    payload: {data: "M -2 -2 C -1 -1 1 -3 2 -2"}
`

const luaTemplate = `-- morphd starter document. Scripts build the same object specs the
-- YAML form describes, with a little room for computation.

local objects = {}

for i = 1, 5 do
	objects[#objects + 1] = {
		name = "dot-" .. i,
		payload = circle{center = {x = i - 3, y = 0}, radius = 0.2 + i * 0.05},
		material = material{stroke = "#a9dc76"},
	}
end

objects[#objects + 1] = {
	name = "outline",
	payload = path("M -3 -1 L 3 -1 L 3 1 L -3 1 Z"),
	material = material{stroke = "#fc9867"},
}

return document{name = "demo", objects = objects}
`
