package tagger

import (
	"context"
	"fmt"
	"time"
)

// 標註器模式
const (
	ModeRule   = "rule"
	ModeRemote = "remote"
	ModeNone   = "none"
)

// Tagger 詞性標註器
type Tagger interface {
	Tag(ctx context.Context, tokens []string) ([]string, error)
}

// New 依模式建立標註器
// ModeNone 回傳 nil，表示不進行標註
func New(mode, url, apiKey string, timeout time.Duration) (Tagger, error) {
	switch mode {
	case ModeRule, "":
		return NewRuleTagger(), nil
	case ModeRemote:
		if url == "" {
			return nil, fmt.Errorf("remote tagger requires a URL")
		}
		return NewRemoteTagger(url, apiKey, timeout), nil
	case ModeNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown tagger mode: %s", mode)
	}
}
