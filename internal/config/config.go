package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "TIMESHEET_"

type Application struct {
	Listen     string     `koanf:"listen"`
	Timezone   string     `koanf:"timezone"`
	Database   Database   `koanf:"db"`
	Redis      Redis      `koanf:"redis"`
	EventStore EventStore `koanf:"eventstore"`
	Settings   Settings   `koanf:"settings"`
	Report     Report     `koanf:"report"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Redis struct {
	Address string `koanf:"address"`
}

type EventStore struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

type Settings struct {
	// Store is either "file" or "redis".
	Store string `koanf:"store"`
	Path  string `koanf:"path"`
	Key   string `koanf:"key"`
}

type Report struct {
	OutputDir      string        `koanf:"outputdir"`
	Format         string        `koanf:"format"`
	RenderAttempts int           `koanf:"renderattempts"`
	RenderDelay    time.Duration `koanf:"renderdelay"`
	ReleaseDelay   time.Duration `koanf:"releasedelay"`
	Schedule       string        `koanf:"schedule"`
	Notify         bool          `koanf:"notify"`
}

func Defaults() Application {
	return Application{
		Listen:   ":8181",
		Timezone: "Local",
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "timesheet",
			Pass:   "",
			Name:   "timesheet",
			Schema: "timesheet",
		},
		Redis: Redis{
			Address: "localhost:6379",
		},
		EventStore: EventStore{
			URL:     "http://localhost:8181",
			Timeout: 10 * time.Second,
		},
		Settings: Settings{
			Store: "file",
			Path:  "./data/settings.json",
			Key:   "calendarSettings",
		},
		Report: Report{
			OutputDir:      ".",
			Format:         "html",
			RenderAttempts: 3,
			RenderDelay:    500 * time.Millisecond,
			ReleaseDelay:   100 * time.Millisecond,
			Notify:         false,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

// Location resolves the configured timezone, falling back to time.Local.
func (a Application) Location() *time.Location {
	if a.Timezone == "" || a.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		log.Warnf("Unknown timezone %q, using local time: %v", a.Timezone, err)
		return time.Local
	}
	return loc
}
