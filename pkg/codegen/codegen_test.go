package codegen

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuildHeader(t *testing.T) {
	text := "P.........\n..........\n##########\n"
	got := string(BuildHeader("test_room", text, Options{}))

	want := "#pragma once\n" +
		"#include <string>\n" +
		"\n" +
		"namespace Assets {\n" +
		"    constexpr const char* TEST_ROOM = R\"(\n" +
		"P.........\n..........\n##########\n" +
		")\";\n" +
		"}\n"

	if got != want {
		t.Errorf("BuildHeader mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildHeaderDeterministic(t *testing.T) {
	a := BuildHeader("lvl", "#.#\n", Options{})
	b := BuildHeader("lvl", "#.#\n", Options{})
	if !bytes.Equal(a, b) {
		t.Error("BuildHeader should produce identical bytes for identical input")
	}
}

func TestBuildHeaderEmbedsVerbatim(t *testing.T) {
	text := "  lead\ttabs\\ and \"quotes\" \n"
	got := string(BuildHeader("x", text, Options{}))
	if !strings.Contains(got, "R\"(\n"+text+")\";") {
		t.Errorf("text not embedded verbatim:\n%s", got)
	}
}

func TestBuildHeaderCustomNamespace(t *testing.T) {
	got := string(BuildHeader("a", "#\n", Options{Namespace: "Game"}))
	if !strings.Contains(got, "namespace Game {") {
		t.Errorf("custom namespace missing:\n%s", got)
	}
}

func TestContainsDelimiter(t *testing.T) {
	if ContainsDelimiter("P..#\n") {
		t.Error("plain level should not contain delimiter")
	}
	if !ContainsDelimiter("a)\"b") {
		t.Error("expected delimiter to be detected")
	}
	// The generator itself does not react to the delimiter.
	got := string(BuildHeader("a", "x)\"y\n", Options{}))
	if !strings.Contains(got, "x)\"y\n)\";") {
		t.Errorf("generator should embed text unchanged:\n%s", got)
	}
}

func TestBuildAggregate(t *testing.T) {
	built := map[string]bool{"teste": true, "level_enemies": true, "level_varieties": true}
	order := []string{"teste", "level_enemies", "unbuilt", "level_varieties"}

	got := string(BuildAggregate(order, func(n string) bool { return built[n] }, Options{}))
	want := `#pragma once
#include <vector>
#include <string>
#include "Teste.h"
#include "Level_enemies.h"
#include "Level_varieties.h"


namespace Assets {
    const std::vector<std::string> ALL_LEVELS = {
        TESTE,
        LEVEL_ENEMIES,
        LEVEL_VARIETIES,

    };
}
`
	if got != want {
		t.Errorf("BuildAggregate mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildAggregateEmpty(t *testing.T) {
	got := string(BuildAggregate(nil, nil, Options{}))
	want := "#pragma once\n#include <vector>\n#include <string>\n\n\n" +
		"namespace Assets {\n    const std::vector<std::string> ALL_LEVELS = {\n\n    };\n}\n"
	if got != want {
		t.Errorf("empty aggregate mismatch:\ngot %q\nwant %q", got, want)
	}
}

func TestBuildAggregateNilBuiltIncludesAll(t *testing.T) {
	got := string(BuildAggregate([]string{"a", "b"}, nil, Options{ListName: "LEVELS"}))
	for _, s := range []string{`#include "A.h"`, `#include "B.h"`, "LEVELS = {", "        A,\n        B,\n"} {
		if !strings.Contains(got, s) {
			t.Errorf("aggregate missing %q:\n%s", s, got)
		}
	}
}
