package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"

	"github.com/sarchlab/simuben/simrun"
)

// Builder turns a suite's sources into a bootable image.
type Builder interface {
	// Build compiles suite inside workDir and returns the image path.
	Build(ctx context.Context, suite Suite, workDir string) (string, error)
}

// NexusAMArch is the nexus-am architecture targeted by NexusAM builds.
const NexusAMArch = "riscv64-xs"

// NexusAM builds suites as nexus-am applications.
type NexusAM struct {
	// Home is the nexus-am checkout, exported to make as AM_HOME.
	Home string

	// ToolchainPath, if set, is prepended to PATH.
	ToolchainPath string

	Log logr.Logger
}

// NewNexusAM creates a NexusAM builder rooted at home.
func NewNexusAM(home, toolchainPath string, log logr.Logger) *NexusAM {
	return &NexusAM{Home: home, ToolchainPath: toolchainPath, Log: log}
}

// Build copies the sources into an application directory under workDir,
// writes its Makefile and runs make. The image lands in build/<suite>.bin.
func (n *NexusAM) Build(ctx context.Context, suite Suite, workDir string) (string, error) {
	appDir := filepath.Join(workDir, suite.Name)
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", errors.Wrapf(err, "failed to create application directory for %s", suite.Name)
	}

	names, err := copySources(suite, appDir)
	if err != nil {
		return "", err
	}

	makefile := Makefile(suite.Name, names)
	if err := os.WriteFile(filepath.Join(appDir, "Makefile"), []byte(makefile), 0644); err != nil {
		return "", errors.Wrapf(err, "failed to write Makefile for %s", suite.Name)
	}

	_, err = simrun.Exec(ctx, n.Log, simrun.Invocation{
		Args: n.Command(),
		Dir:  appDir,
		Env:  n.env(),
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to build suite %s", suite.Name)
	}

	image := filepath.Join(appDir, "build", suite.Name+".bin")
	if _, err := os.Stat(image); err != nil {
		return "", errors.Wrapf(err, "build of %s produced no image", suite.Name)
	}

	n.Log.Info("suite built", "suite", suite.Name, "image", image)
	return image, nil
}

// Command returns the make invocation.
func (n *NexusAM) Command() []string {
	return []string{"make", "ARCH=" + NexusAMArch}
}

func (n *NexusAM) env() []string {
	env := []string{"AM_HOME=" + n.Home}
	if n.ToolchainPath != "" {
		env = append(env, "PATH="+n.ToolchainPath+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
	return env
}

// Makefile renders the nexus-am application Makefile for the given sources.
func Makefile(name string, sources []string) string {
	return strings.Join([]string{
		fmt.Sprintf("NAME = %s", name),
		fmt.Sprintf("SRCS = %s", strings.Join(sources, " ")),
		"include $(AM_HOME)/Makefile.app",
	}, "\n") + "\n"
}

// copySources places every source in appDir and returns their base names.
// Two sources sharing a base name would overwrite each other, so that is an
// error.
func copySources(suite Suite, appDir string) ([]string, error) {
	names := make([]string, 0, len(suite.Sources))
	seen := make(map[string]string, len(suite.Sources))

	for _, src := range suite.Sources {
		name := filepath.Base(src)
		if prev, ok := seen[name]; ok {
			return nil, errors.Newf("suite %s has two sources named %s: %s and %s",
				suite.Name, name, prev, src)
		}
		seen[name] = src

		data, err := os.ReadFile(src)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read source %s", src)
		}
		if err := os.WriteFile(filepath.Join(appDir, name), data, 0644); err != nil {
			return nil, errors.Wrapf(err, "failed to copy source %s", src)
		}
		names = append(names, name)
	}

	return names, nil
}
