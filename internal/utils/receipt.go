package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// LaunchReceipt 发行回执，落盘为 YAML 便于人工核对
type LaunchReceipt struct {
	Signature   string    `yaml:"signature"`
	Outcome     string    `yaml:"outcome"`
	Slot        uint64    `yaml:"slot,omitempty"`
	Attempts    int       `yaml:"attempts"`
	Error       string    `yaml:"error,omitempty"`
	Mint        string    `yaml:"mint"`
	Payer       string    `yaml:"payer"`
	Metadata    string    `yaml:"metadata"`
	Name        string    `yaml:"name"`
	Symbol      string    `yaml:"symbol"`
	URI         string    `yaml:"uri"`
	Decimals    int       `yaml:"decimals"`
	SupplyMinor uint64    `yaml:"supply_minor"`
	CreatedAt   time.Time `yaml:"created_at"`
}

// WriteReceipt 写入 dir/<mint>-<unix>.yaml，返回文件路径
func WriteReceipt(dir string, r LaunchReceipt) (string, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create receipt dir %s: %w", dir, err)
	}
	data, err := yaml.Marshal(&r)
	if err != nil {
		return "", fmt.Errorf("marshal receipt: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%d.yaml", r.Mint, r.CreatedAt.Unix()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write receipt %s: %w", path, err)
	}
	return path, nil
}

// ReadReceipt 读取回执文件
func ReadReceipt(path string) (LaunchReceipt, error) {
	var r LaunchReceipt
	data, err := os.ReadFile(path)
	if err != nil {
		return r, err
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("unmarshal receipt %s: %w", path, err)
	}
	return r, nil
}
