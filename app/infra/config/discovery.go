package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"go.iain.rocks/bundlemon/app/domain"
)

const ModuleName = "bundlemon"

var conf = koanf.Conf{
	Delim:       ".",
	StrictMerge: true,
}

// SearchResult is a config file found on disk.
type SearchResult struct {
	Filepath string
	Config   domain.Config
	// IsEmpty is true when the file exists but holds no configuration.
	IsEmpty bool
}

type candidate struct {
	name   string
	parser koanf.Parser
	// property is the key holding the config inside a shared file.
	property string
}

func candidates(module string) []candidate {
	return []candidate{
		{name: "package.json", parser: json.Parser(), property: module},
		{name: "." + module + "rc", parser: yaml.Parser()},
		{name: "." + module + "rc.json", parser: json.Parser()},
		{name: "." + module + "rc.yaml", parser: yaml.Parser()},
		{name: "." + module + "rc.yml", parser: yaml.Parser()},
		{name: module + ".config.json", parser: json.Parser()},
		{name: module + ".config.yaml", parser: yaml.Parser()},
		{name: module + ".config.yml", parser: yaml.Parser()},
	}
}

// Explorer searches for the config of one module name, walking up from a
// start directory.
type Explorer struct {
	module  string
	stopDir string
}

// NewExplorer returns an Explorer for module. The search stops after
// stopDir; an empty stopDir searches up to the filesystem root.
func NewExplorer(module, stopDir string) *Explorer {
	return &Explorer{module: module, stopDir: stopDir}
}

// Search looks for a config file in startDir and each of its parents. It
// returns nil when no config file exists.
func (e *Explorer) Search(startDir string) (*SearchResult, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	stop := ""
	if e.stopDir != "" {
		if stop, err = filepath.Abs(e.stopDir); err != nil {
			return nil, err
		}
	}

	for {
		for _, c := range candidates(e.module) {
			res, err := load(filepath.Join(dir, c.name), c)
			if err != nil {
				return nil, err
			}
			if res != nil {
				return res, nil
			}
		}

		parent := filepath.Dir(dir)
		if dir == stop || parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Load reads an explicit config file. The parser is picked from the file
// extension, YAML otherwise.
func Load(path string) (*SearchResult, error) {
	c := candidate{name: filepath.Base(path), parser: yaml.Parser()}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		c.parser = json.Parser()
	}
	if filepath.Base(path) == "package.json" {
		c.property = ModuleName
	}

	res, err := load(path, c)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
	}
	return res, nil
}

func load(path string, c candidate) (*SearchResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, nil
	}

	res := &SearchResult{Filepath: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		res.IsEmpty = true
		return res, nil
	}

	k := koanf.NewWithConf(conf)
	if err := k.Load(file.Provider(path), c.parser); err != nil {
		return nil, fmt.Errorf("error loading config %s: %w", path, err)
	}

	if c.property != "" {
		if !k.Exists(c.property) {
			return nil, nil
		}
		k = k.Cut(c.property)
	}

	if len(k.Keys()) == 0 {
		res.IsEmpty = true
		return res, nil
	}

	if err := k.UnmarshalWithConf("", &res.Config, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("error unmarshalling config %s: %w", path, err)
	}

	return res, nil
}
