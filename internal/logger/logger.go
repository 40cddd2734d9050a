package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
)

var (
	isDebug = false

	CritColor    = color.RGB(255, 0, 0).SprintFunc()
	DebugColor   = color.RGB(255, 165, 0).SprintFunc()
	WarningColor = color.RGB(255, 255, 0).SprintFunc()
	EventColor   = color.RGB(0, 255, 0).SprintFunc()
)

type (
	loggerConfig struct {
		Logging *struct {
			// write logs to a file as well as stdout
			Enabled bool `yaml:"enabled"`
			// defaults to "./log"
			Directory string `yaml:"directory"`
			// time layout used for the file name
			FilenameFormat string `yaml:"filename_format"`
		} `yaml:"logging"`

		Color *struct {
			NoColor bool `yaml:"no_color"`

			Crit    colorConf `yaml:"crit"`
			Debug   colorConf `yaml:"debug"`
			Warning colorConf `yaml:"warning"`
			Event   colorConf `yaml:"event"`
		} `yaml:"color"`
	}

	colorConf struct {
		Enabled bool    `yaml:"enabled"`
		Rgb     *[3]int `yaml:"rgb"`
	}
)

// InitLogger sets the log prefix and flags, then applies the optional
// YAML settings at configPath. The returned file, if any, receives a copy
// of every line and must be closed by the caller.
func InitLogger(debug bool, configPath string) *os.File {
	isDebug = debug
	color.NoColor = true

	log.SetPrefix("[QANALYTICS] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lmsgprefix)

	if configPath == "" {
		return nil
	}

	input, err := os.Open(configPath)
	if err != nil {
		Info("Log settings not found, using defaults")
		return nil
	}
	defer input.Close()

	cnf := &loggerConfig{}
	if err := yaml.NewDecoder(input).Decode(cnf); err != nil {
		Warning("Failed to load log settings", err)
		return nil
	}

	if cnf.Color != nil && !cnf.Color.NoColor {
		color.NoColor = false

		setColorCnf := func(cData colorConf, globColor *func(a ...interface{}) string) {
			if !cData.Enabled {
				d := new(color.Color)
				d.DisableColor()
				*globColor = d.SprintFunc()
				return
			}
			if cData.Rgb != nil {
				*globColor = color.RGB((*cData.Rgb)[0], (*cData.Rgb)[1], (*cData.Rgb)[2]).SprintFunc()
			}
		}

		setColorCnf(cnf.Color.Crit, &CritColor)
		setColorCnf(cnf.Color.Debug, &DebugColor)
		setColorCnf(cnf.Color.Warning, &WarningColor)
		setColorCnf(cnf.Color.Event, &EventColor)
	}

	if cnf.Logging != nil && cnf.Logging.Enabled {
		if cnf.Logging.Directory == "" {
			cnf.Logging.Directory = "./log"
		}
		if cnf.Logging.FilenameFormat == "" {
			cnf.Logging.FilenameFormat = "qanalytics"
		}

		fileName := filepath.Join(cnf.Logging.Directory, time.Now().Format(cnf.Logging.FilenameFormat)+".log")

		logFile, err := os.OpenFile(fileName, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
		if err != nil {
			Warning("Cannot open log file, logs are not saved:", err)
			return nil
		}
		log.SetOutput(io.MultiWriter(os.Stdout, logFile))

		return logFile
	}

	return nil
}

// SetDebug toggles Debug output without touching the other settings.
func SetDebug(debug bool) {
	isDebug = debug
}

func IsDebug() bool {
	return isDebug
}

func Info(v ...interface{}) {
	log.Print("[INFO] ", fmt.Sprintln(v...))
}

func Event(v ...interface{}) {
	log.Print(EventColor("[EVENT] ", fmt.Sprintln(v...)))
}

func Warning(v ...interface{}) {
	log.Print(WarningColor("[WARNING] ", fmt.Sprintln(v...)))
}

// Debug prints strings as they are and JSON-encodes everything else.
func Debug(v ...interface{}) {
	if !isDebug {
		return
	}

	message := new(bytes.Buffer)
	for _, str := range v {
		if s, ok := str.(string); ok {
			_, _ = fmt.Fprintf(message, "%s ", s)
			continue
		}
		b, err := json.MarshalIndent(str, "", " ")
		if err != nil {
			_, _ = fmt.Fprintf(message, "%v ", str)
			continue
		}
		_, _ = fmt.Fprintf(message, "%s ", string(b))
	}

	log.Print(DebugColor("[DEBUG] ", message))
}

// exit ends the process after a critical error.
var exit = func() {
	time.Sleep(time.Second)
	os.Exit(1)
}

// Crit logs a fatal error and exits with status 1.
func Crit(v ...interface{}) {
	log.Printf(CritColor("Critical error: %s"), fmt.Sprint(v...))
	exit()
}
