package catalog

import (
	"sort"

	"github.com/avjd/storefront/internal/model"
)

const sectionLimit = 4

// promotionThresholdCents — нижняя граница цены для секции «акции» (R$ 50,00).
const promotionThresholdCents = 5000

// Sections содержит производные секции витрины, вычисленные по полному каталогу.
type Sections struct {
	Highlight   *model.Game
	Promotions  []model.Game
	Popular     []model.Game
	NewReleases []model.Game
}

// ComputeSections распределяет каталог по секциям витрины. Вход не изменяется.
//
// Секция «акции» — игры дороже порога на чётных позициях каталога, не более четырёх.
// «Популярное» — четыре игры с наибольшими идентификаторами, по убыванию.
// «Новинки» — четыре игры с наибольшим годом выпуска, по убыванию.
func ComputeSections(games []model.Game) Sections {
	var s Sections

	if len(games) == 0 {
		return s
	}

	highlight := games[0]
	s.Highlight = &highlight

	for i, g := range games {
		if g.PriceCents > promotionThresholdCents && i%2 == 0 {
			s.Promotions = append(s.Promotions, g)
			if len(s.Promotions) == sectionLimit {
				break
			}
		}
	}

	s.Popular = topBy(games, func(a, b model.Game) bool { return a.ID > b.ID })
	s.NewReleases = topBy(games, func(a, b model.Game) bool { return a.Year > b.Year })

	return s
}

func topBy(games []model.Game, less func(a, b model.Game) bool) []model.Game {
	sorted := make([]model.Game, len(games))
	copy(sorted, games)

	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })

	if len(sorted) > sectionLimit {
		sorted = sorted[:sectionLimit]
	}
	return sorted
}
