package config

import (
	"encoding/json"
	"fmt"
	"os"
)

const exampleConfig = `# assetbuilder configuration
name: app
webroot: ./www
build: ./build
temp: ./temp
src:
  - ./www/src
templates: templates

sass:
  binary: sass
  compass: true

release:
  branch: master
  repository: .

index:
  dev:
    src: www/templates/index.html
    dest: www/index.html
    options:
      js:
        - vendor/jquery.js
      css:
        - css/app.css
      include:
        cwd: www
        src:
          - src/**/*.js
      version: auto
      data:
        title: ${APP_TITLE}
  build:
    src: www/templates/index.html
    dest: build/index.html
    options:
      css:
        - css/app.css
      include:
        cwd: build
        src:
          - js/*.js
      version: auto
`

// Init writes an example configuration file to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}
	// #nosec G306 -- configuration files are not secret.
	if err := os.WriteFile(path, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("write configuration: %w", err)
	}
	return nil
}

// FormatValue renders a configuration value for display: strings as they are,
// anything else as indented JSON.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
