// Package prompt 提供各生成任务的系统提示词与用户提示词渲染
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"plotforge-api/internal/domain/entity"
)

//go:embed templates/*.txt
var templatesFS embed.FS

// Registry 系统提示词注册表，按任务惰性加载嵌入文件
type Registry struct {
	mu    sync.RWMutex
	cache map[entity.GenerationTask]string
}

// NewRegistry 创建提示词注册表
func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[entity.GenerationTask]string),
	}
}

// SystemPrompt 返回任务对应的系统提示词
func (r *Registry) SystemPrompt(task entity.GenerationTask) (string, error) {
	r.mu.RLock()
	if text, ok := r.cache[task]; ok {
		r.mu.RUnlock()
		return text, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if text, ok := r.cache[task]; ok {
		return text, nil
	}

	path, err := resolveSystemFile(task)
	if err != nil {
		return "", err
	}
	text, err := readEmbeddedText(path)
	if err != nil {
		return "", err
	}

	r.cache[task] = text
	return text, nil
}

// ExpansionSystemPrompt 返回扩写任务的系统提示词
func (r *Registry) ExpansionSystemPrompt() (string, error) {
	return readEmbeddedText("templates/expansion_v1.system.txt")
}

func resolveSystemFile(task entity.GenerationTask) (string, error) {
	switch task {
	case entity.TaskCharacter:
		return "templates/character_v1.system.txt", nil
	case entity.TaskPlot:
		return "templates/plot_v1.system.txt", nil
	case entity.TaskSetting:
		return "templates/setting_v1.system.txt", nil
	case entity.TaskChapter:
		return "templates/chapter_v1.system.txt", nil
	case entity.TaskEditorial:
		return "templates/editorial_v1.system.txt", nil
	default:
		return "", fmt.Errorf("no system prompt for task: %s", task)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
