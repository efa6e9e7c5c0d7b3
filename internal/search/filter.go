// Package search реализует поиск по каталогу: фильтрацию, подсказки и конвейер
// отложенного полного поиска при наборе текста.
package search

import (
	"strings"

	"github.com/avjd/storefront/internal/model"
)

// SuggestMinTermLen — минимальная длина запроса, при которой показываются подсказки.
const SuggestMinTermLen = 4

const suggestLimit = 5

// Filter возвращает игры, в названии или описании которых встречается запрос.
// Сравнение регистронезависимое, порядок каталога сохраняется. Пустой запрос
// возвращает каталог целиком.
func Filter(term string, games []model.Game) []model.Game {
	needle := strings.ToLower(strings.TrimSpace(term))

	matched := make([]model.Game, 0, len(games))
	for _, g := range games {
		if needle == "" ||
			strings.Contains(strings.ToLower(g.Name), needle) ||
			strings.Contains(strings.ToLower(g.Description), needle) {
			matched = append(matched, g)
		}
	}

	return matched
}

// Suggest возвращает до пяти подсказок для запроса. Запросы короче
// SuggestMinTermLen подсказок не дают.
func Suggest(term string, games []model.Game) []model.Game {
	if len(strings.TrimSpace(term)) < SuggestMinTermLen {
		return nil
	}

	matched := Filter(term, games)
	if len(matched) > suggestLimit {
		matched = matched[:suggestLimit]
	}
	return matched
}
