// Package logflags implements logging flags for snapdump.
package logflags

import (
	"errors"
	"io/ioutil"
	"log"
	"strings"

	"github.com/sirupsen/logrus"
)

var export = false
var registry = false
var snapshot = false
var tool = false

func makeLogger(flag bool, fields logrus.Fields) *logrus.Entry {
	logger := logrus.New().WithFields(fields)
	logger.Logger.Level = logrus.DebugLevel
	if !flag {
		logger.Logger.Level = logrus.PanicLevel
	}
	return logger
}

// Export returns true if the export dispatcher should log.
func Export() bool {
	return export
}

// ExportLogger returns a logger for the export dispatcher.
func ExportLogger() *logrus.Entry {
	return makeLogger(export, logrus.Fields{"layer": "export"})
}

// Registry returns true if the encoding registry should log.
func Registry() bool {
	return registry
}

// RegistryLogger returns a logger for the encoding registry.
func RegistryLogger() *logrus.Entry {
	return makeLogger(registry, logrus.Fields{"layer": "registry"})
}

// Snapshot returns true if snapshot requests should be logged.
func Snapshot() bool {
	return snapshot
}

// SnapshotLogger returns a logger for snapshot requests.
func SnapshotLogger() *logrus.Entry {
	return makeLogger(snapshot, logrus.Fields{"layer": "snapshot"})
}

// Tool returns true if external tool invocations should be logged.
func Tool() bool {
	return tool
}

// ToolLogger returns a logger for external tool invocations.
func ToolLogger() *logrus.Entry {
	return makeLogger(tool, logrus.Fields{"layer": "tool"})
}

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

// Setup sets logging flags based on the contents of logstr.
func Setup(logFlag bool, logstr string) error {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if !logFlag {
		log.SetOutput(ioutil.Discard)
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	if logstr == "" {
		logstr = "export"
	}
	v := strings.Split(logstr, ",")
	for _, logcmd := range v {
		switch logcmd {
		case "export":
			export = true
		case "registry":
			registry = true
		case "snapshot":
			snapshot = true
		case "tool":
			tool = true
		}
	}
	return nil
}
