package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	app := []string{
		"alnmodel/internal/cli", "alnmodel/internal/appcore", "alnmodel/internal/app",
		"alnmodel/internal/appshell", "alnmodel/cmd/",
	}
	infra := []string{
		"alnmodel/internal/samio", "alnmodel/internal/fasta", "alnmodel/internal/reference",
		"alnmodel/internal/pipeline", "alnmodel/internal/writers", "alnmodel/internal/modelio",
		"alnmodel/internal/metrics", "alnmodel/internal/config",
	}
	core := append(append([]string{}, app...), infra...)

	bans := map[string][]string{
		"alnmodel/internal/logmath":  core,
		"alnmodel/internal/matrix":   core,
		"alnmodel/internal/alnstate": core,
		"alnmodel/internal/errmodel": core,
		"alnmodel/internal/score":    core,
		"alnmodel/internal/pipeline": append(app, "alnmodel/internal/writers", "alnmodel/internal/modelio"),
		"alnmodel/internal/writers":  append(app, "alnmodel/internal/pipeline", "alnmodel/internal/samio"),
		"alnmodel/internal/modelio":  append(app, "alnmodel/internal/pipeline", "alnmodel/internal/samio"),
		"alnmodel/internal/samio":    append(app, "alnmodel/internal/pipeline", "alnmodel/internal/writers"),
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, "alnmodel/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, "alnmodel/") {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
