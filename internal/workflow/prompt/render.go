package prompt

import (
	"fmt"
	"strings"

	"plotforge-api/internal/domain/entity"
)

// Params 用户提示词渲染参数。未填写的字段对应的提示句整行省略。
type Params struct {
	// 通用调优字段
	Genre         string
	Audience      string
	FilterLevel   string
	FormatOptions string

	// character
	Name      string
	Role      string
	KeyTraits []string

	// plot
	Theme   string
	Premise string

	// setting
	SettingType string
	TimePeriod  string
	Mood        string

	// chapter
	Title           string
	Synopsis        string
	PreviousSummary string
	WordTarget      int

	// editorial
	Content    string
	FocusAreas []string
}

// Render 构建任务对应的用户提示词。纯函数，对合法任务永不出错。
func Render(task entity.GenerationTask, p Params) (string, error) {
	switch task {
	case entity.TaskCharacter:
		return renderCharacter(p), nil
	case entity.TaskPlot:
		return renderPlot(p), nil
	case entity.TaskSetting:
		return renderSetting(p), nil
	case entity.TaskChapter:
		return renderChapter(p), nil
	case entity.TaskEditorial:
		return renderEditorial(p), nil
	default:
		return "", fmt.Errorf("no user prompt template for task: %s", task)
	}
}

func renderCharacter(p Params) string {
	var b promptBuilder
	b.line("Create a character for this story.")
	b.optional("Genre: %s", p.Genre)
	b.optional("Target audience: %s", p.Audience)
	b.optional("Content rating: %s", p.FilterLevel)
	b.optional("The character's name is %s.", p.Name)
	b.optional("Their narrative role is %s.", p.Role)
	if len(p.KeyTraits) > 0 {
		b.line("Key traits to build around: " + strings.Join(p.KeyTraits, ", ") + ".")
	}
	b.optional("Formatting notes: %s", p.FormatOptions)
	return b.String()
}

func renderPlot(p Params) string {
	var b promptBuilder
	b.line("Design a plot for this story.")
	b.optional("Genre: %s", p.Genre)
	b.optional("Target audience: %s", p.Audience)
	b.optional("Content rating: %s", p.FilterLevel)
	b.optional("Central theme: %s", p.Theme)
	b.optional("Premise: %s", p.Premise)
	b.optional("Formatting notes: %s", p.FormatOptions)
	return b.String()
}

func renderSetting(p Params) string {
	var b promptBuilder
	b.line("Create a setting for this story.")
	b.optional("Genre: %s", p.Genre)
	b.optional("Target audience: %s", p.Audience)
	b.optional("Content rating: %s", p.FilterLevel)
	b.optional("Kind of place: %s", p.SettingType)
	b.optional("Time period: %s", p.TimePeriod)
	b.optional("Desired mood: %s", p.Mood)
	b.optional("Formatting notes: %s", p.FormatOptions)
	return b.String()
}

func renderChapter(p Params) string {
	var b promptBuilder
	b.line("Write a chapter of this story.")
	b.optional("Genre: %s", p.Genre)
	b.optional("Target audience: %s", p.Audience)
	b.optional("Content rating: %s", p.FilterLevel)
	b.optional("Chapter title: %s", p.Title)
	b.optional("What should happen: %s", p.Synopsis)
	b.optional("Previously in the story: %s", p.PreviousSummary)
	if p.WordTarget > 0 {
		b.line(fmt.Sprintf("Aim for roughly %d words.", p.WordTarget))
	}
	b.optional("Formatting notes: %s", p.FormatOptions)
	return b.String()
}

func renderEditorial(p Params) string {
	var b promptBuilder
	b.line("Review the following manuscript excerpt and give editorial feedback.")
	if len(p.FocusAreas) > 0 {
		b.line("Focus especially on: " + strings.Join(p.FocusAreas, ", ") + ".")
	}
	b.optional("Target audience: %s", p.Audience)
	b.optional("Genre: %s", p.Genre)
	if p.Content != "" {
		b.line("")
		b.line("Manuscript:")
		b.line(p.Content)
	}
	return b.String()
}

// RenderExpansion 构建扩写任务的用户提示词。共享脚手架 + 按聚焦点选择指令段落。
func RenderExpansion(entityKind string, focus entity.ExpansionFocus, existing string, p Params) (string, error) {
	instruction, fields, ok := expansionInstruction(focus)
	if !ok {
		return "", fmt.Errorf("unknown expansion focus: %s", focus)
	}

	var b promptBuilder
	b.line(fmt.Sprintf("Expand one facet of an existing %s.", entityKind))
	b.optional("Genre: %s", p.Genre)
	b.optional("Target audience: %s", p.Audience)
	b.line("")
	b.line("Current " + entityKind + ":")
	b.line(existing)
	b.line("")
	b.line(instruction)
	b.line("Return a JSON object with exactly these fields: " + fields + ".")
	return b.String(), nil
}

func expansionInstruction(focus entity.ExpansionFocus) (instruction, fields string, ok bool) {
	switch focus {
	case entity.FocusBackground:
		return "Deepen the backstory: formative events, old wounds, and how the past shapes present behavior.",
			`"background" (string)`, true
	case entity.FocusRelationships:
		return "Develop the web of relationships: allies, rivals, debts, and the dynamics of each bond.",
			`"relationships" (array of {"with","type","dynamics"})`, true
	case entity.FocusDevelopment:
		return "Chart growth over the story: the arc, the goals that drive it, and the fears that resist it.",
			`"arc" (string), "goals" (array of strings)`, true
	case entity.FocusDetails:
		return "Add texture: concrete physical details, skills, habits, and the voice in which they speak.",
			`"physicalTraits" (array of strings), "skills" (array of strings), "voice" (string)`, true
	default:
		return "", "", false
	}
}

// promptBuilder 逐行拼接提示词，跳过空行参数
type promptBuilder struct {
	lines []string
}

func (b *promptBuilder) line(s string) {
	b.lines = append(b.lines, s)
}

func (b *promptBuilder) optional(format, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.lines = append(b.lines, fmt.Sprintf(format, value))
}

func (b *promptBuilder) String() string {
	return strings.Join(b.lines, "\n")
}
