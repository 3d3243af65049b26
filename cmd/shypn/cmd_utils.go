package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/simao-eugenio/shypn-sub018/config"
	"github.com/simao-eugenio/shypn-sub018/knowledge"
	"github.com/simao-eugenio/shypn-sub018/pathway"
	"github.com/simao-eugenio/shypn-sub018/subnet"
)

// loadConfig resolves the threshold configuration: the --config file
// when given, defaults otherwise.
func loadConfig() (*config.Config, error) {
	if rootFlags.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(rootFlags.configPath)
}

// loadNet reads and validates a pathway model file.
func loadNet(path string) (*pathway.Net, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return pathway.FromJSON(data)
}

// loadBase builds a knowledge base for the model, hydrated from a
// persisted document when kbPath is non-empty.
func loadBase(modelPath, kbPath string, cfg *config.Config) (*knowledge.Base, error) {
	net, err := loadNet(modelPath)
	if err != nil {
		return nil, err
	}
	modelID := strings.TrimSuffix(filepath.Base(modelPath), filepath.Ext(modelPath))
	kb := knowledge.NewBase(modelID, net)
	kb.SetConfig(cfg)
	if kbPath != "" {
		doc, err := knowledge.ReadJSON(kbPath)
		if err != nil {
			return nil, err
		}
		if err := kb.Load(doc); err != nil {
			return nil, err
		}
		kb.SetConfig(cfg)
	}
	return kb, nil
}

// buildSubnet extracts the subnet spanned by the named transitions.
func buildSubnet(net *pathway.Net, transitionIDs []string) (*subnet.Subnet, error) {
	if len(transitionIDs) == 0 {
		transitionIDs = net.TransitionIDs()
	}
	localities := make([]*pathway.Locality, 0, len(transitionIDs))
	for _, tid := range transitionIDs {
		loc, err := net.LocalityOf(tid)
		if err != nil {
			return nil, err
		}
		localities = append(localities, loc)
	}
	return subnet.Build(net, localities)
}

// knowledgeWrite persists the knowledge base as a versioned document.
func knowledgeWrite(kb *knowledge.Base, path string) error {
	return knowledge.WriteJSON(kb.Snapshot(), path)
}

// parseFloatPairs parses repeated KEY=VALUE flags into a map.
func parseFloatPairs(pairs []string) (map[string]float64, error) {
	result := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected KEY=VALUE, got %q", pair)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("value for %s: %w", key, err)
		}
		result[key] = value
	}
	return result, nil
}

// parseIntPairs parses repeated KEY=VALUE flags into an integer map.
func parseIntPairs(pairs []string) (map[string]int, error) {
	result := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected KEY=VALUE, got %q", pair)
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("value for %s: %w", key, err)
		}
		result[key] = value
	}
	return result, nil
}

// splitList splits a comma-separated flag value, dropping empties.
func splitList(raw string) []string {
	var result []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
