package generation

import (
	"strings"
	"time"

	"plotforge-api/internal/domain/entity"
)

// ExtractFromMarkdown markdown 标题回落抽取：当 JSON 抽取失败、模型以
// markdown 形式返回角色时使用。顶级标题作为 name，按二级标题识别
// Description/Background 段落与 Traits/Personality 列表。
// 未匹配到的部分直接省略，不做回填。
func ExtractFromMarkdown(raw string) (*entity.Character, bool) {
	lines := strings.Split(raw, "\n")

	character := &entity.Character{}
	found := false
	section := ""
	var sectionBody []string

	flush := func() {
		body := strings.TrimSpace(strings.Join(sectionBody, "\n"))
		switch section {
		case "description":
			character.ShortDescription = body
		case "background":
			character.Background = body
		}
		sectionBody = sectionBody[:0]
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "# ") && !strings.HasPrefix(trimmed, "## "):
			flush()
			section = ""
			character.Name = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
			found = true

		case strings.HasPrefix(trimmed, "## "):
			flush()
			heading := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, "## ")))
			switch heading {
			case "description":
				section = "description"
			case "background":
				section = "background"
			case "traits":
				section = "traits"
			case "personality":
				section = "personality"
			default:
				section = ""
			}

		case section == "traits" || section == "personality":
			bullet, ok := bulletText(trimmed)
			if !ok {
				continue
			}
			if section == "traits" {
				character.PhysicalTraits = append(character.PhysicalTraits, bullet)
			} else {
				character.PersonalityTraits = append(character.PersonalityTraits, bullet)
			}
			found = true

		case section != "":
			sectionBody = append(sectionBody, line)
			found = true
		}
	}
	flush()

	if !found {
		return nil, false
	}

	character.EnsureArrayDefaults()
	character.AIGenerated = true
	character.EditedByUser = false
	character.CreatedAt = time.Now()
	return character, true
}

func bulletText(line string) (string, bool) {
	for _, prefix := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(line, prefix) {
			text := strings.TrimSpace(strings.TrimPrefix(line, prefix))
			return text, text != ""
		}
	}
	return "", false
}
