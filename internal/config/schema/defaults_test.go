package schema

import (
	"reflect"
	"testing"
)

func TestApplyDefaults_EmptyDocument(t *testing.T) {
	s, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded() error = %v", err)
	}

	doc := s.ApplyDefaults(map[string]any{})

	qt, ok := doc["quality-tools"].(map[string]any)
	if !ok {
		t.Fatalf("quality-tools section missing, doc = %v", doc)
	}

	project := qt["project"].(map[string]any)
	if project["type"] != "generic" {
		t.Errorf("project.type = %v, want generic", project["type"])
	}
	if project["php_version"] != "8.2" {
		t.Errorf("project.php_version = %v, want 8.2", project["php_version"])
	}

	paths := qt["paths"].(map[string]any)
	if !reflect.DeepEqual(paths["scan"], []any{"packages/"}) {
		t.Errorf("paths.scan = %v, want [packages/]", paths["scan"])
	}
	if !reflect.DeepEqual(paths["exclude"], []any{"vendor/", "var/", "node_modules/"}) {
		t.Errorf("paths.exclude = %v, want default exclude list", paths["exclude"])
	}

	tools := qt["tools"].(map[string]any)
	rector := tools["rector"].(map[string]any)
	if rector["enabled"] != true {
		t.Errorf("tools.rector.enabled = %v, want true", rector["enabled"])
	}
	if rector["level"] != "php82" {
		t.Errorf("tools.rector.level = %v, want php82", rector["level"])
	}
	tslint := tools["typoscript-lint"].(map[string]any)
	if tslint["enabled"] != false {
		t.Errorf("tools.typoscript-lint.enabled = %v, want false", tslint["enabled"])
	}
	phpstan := tools["phpstan"].(map[string]any)
	if got := toInt64(phpstan["level"]); got != 6 {
		t.Errorf("tools.phpstan.level = %v, want 6", phpstan["level"])
	}
	if _, exists := rector["options"]; exists {
		t.Error("tools.rector.options should not be created by defaults")
	}

	perf := qt["performance"].(map[string]any)
	if perf["memory_limit"] != "512M" {
		t.Errorf("performance.memory_limit = %v, want 512M", perf["memory_limit"])
	}
	if got := toInt64(perf["max_memory_percent"]); got != 75 {
		t.Errorf("performance.max_memory_percent = %v, want 75", perf["max_memory_percent"])
	}
}

func TestApplyDefaults_DefaultsDocumentIsValid(t *testing.T) {
	s, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded() error = %v", err)
	}

	doc := s.ApplyDefaults(map[string]any{})
	if err := NewValidator(s).WithStrictMode(true).Validate(doc); err != nil {
		t.Errorf("defaults document failed strict validation: %v", err)
	}
}

func TestApplyDefaults_PreservesExistingValues(t *testing.T) {
	s, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded() error = %v", err)
	}

	doc := s.ApplyDefaults(map[string]any{
		"quality-tools": map[string]any{
			"project": map[string]any{"type": "typo3"},
			"output":  map[string]any{"colors": false},
		},
	})

	qt := doc["quality-tools"].(map[string]any)
	project := qt["project"].(map[string]any)
	if project["type"] != "typo3" {
		t.Errorf("project.type = %v, want typo3 preserved", project["type"])
	}
	if project["php_version"] != "8.2" {
		t.Errorf("project.php_version = %v, want default filled in", project["php_version"])
	}
	output := qt["output"].(map[string]any)
	if output["colors"] != false {
		t.Errorf("output.colors = %v, want false preserved", output["colors"])
	}
	if output["format"] != "table" {
		t.Errorf("output.format = %v, want default filled in", output["format"])
	}
}

func TestApplyDefaults_DoesNotMutateInput(t *testing.T) {
	s, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded() error = %v", err)
	}

	project := map[string]any{"name": "demo"}
	in := map[string]any{"quality-tools": map[string]any{"project": project}}

	s.ApplyDefaults(in)

	if len(project) != 1 {
		t.Errorf("input project section gained keys: %v", project)
	}
	if len(in["quality-tools"].(map[string]any)) != 1 {
		t.Errorf("input quality-tools section gained keys: %v", in["quality-tools"])
	}
}

func TestApplyDefaults_WrongShapeSectionLeftAlone(t *testing.T) {
	s, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded() error = %v", err)
	}

	doc := s.ApplyDefaults(map[string]any{"quality-tools": "not a map"})

	if doc["quality-tools"] != "not a map" {
		t.Errorf("quality-tools = %v, want malformed value preserved for validation to report", doc["quality-tools"])
	}
}
