/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package common

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/voice"

	"gopkg.in/yaml.v2"
)

// Catalog lists the enumerations the parser and the voice service accept
type Catalog struct {
	ExpenseCategories []string      `yaml:"expense_categories"`
	IncomeSourceTypes []string      `yaml:"income_source_types"`
	AssetTypes        []string      `yaml:"asset_types"`
	Voices            []voice.Voice `yaml:"voices"`
}

// DefaultCatalog is used when no catalog file is configured
func DefaultCatalog() *Catalog {
	return &Catalog{
		ExpenseCategories: slices.Clone(models.ExpenseCategories),
		IncomeSourceTypes: slices.Clone(models.IncomeSourceTypes),
		AssetTypes:        slices.Clone(models.AssetTypes),
	}
}

// LoadCatalog reads a YAML catalog. Lists the file leaves out keep their
// defaults; every category and source type list includes "other".
func LoadCatalog(catalogFile string) (*Catalog, error) {
	catalog := DefaultCatalog()
	if catalogFile == "" {
		return catalog, nil
	}

	catalogPath := catalogFile
	if !filepath.IsAbs(catalogFile) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		catalogPath = filepath.Join(wd, catalogFile)
	}

	data, err := os.ReadFile(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", catalogFile, err)
	}

	var parsed Catalog
	if err := yaml.UnmarshalStrict(data, &parsed); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", catalogFile, err)
	}

	lists := []struct {
		name string
		src  []string
		dst  *[]string
	}{
		{"expense_categories", parsed.ExpenseCategories, &catalog.ExpenseCategories},
		{"income_source_types", parsed.IncomeSourceTypes, &catalog.IncomeSourceTypes},
		{"asset_types", parsed.AssetTypes, &catalog.AssetTypes},
	}
	for _, l := range lists {
		if len(l.src) == 0 {
			continue
		}
		values, err := normalize(l.name, l.src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", catalogFile, err)
		}
		*l.dst = values
	}

	for i, v := range parsed.Voices {
		if v.Name == "" || v.Lang == "" {
			return nil, fmt.Errorf("%s: voice at index %d needs a name and a lang", catalogFile, i)
		}
	}
	catalog.Voices = parsed.Voices

	return catalog, nil
}

// normalize lowercases and dedupes values, then appends "other" if missing
func normalize(name string, values []string) ([]string, error) {
	var out []string
	for i, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			return nil, fmt.Errorf("%s entry at index %d is empty", name, i)
		}
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	if !slices.Contains(out, models.CategoryOther) {
		out = append(out, models.CategoryOther)
	}
	return out, nil
}
