package sdn

// SequenceRatio вычисляет коэффициент схожести двух строк по методу
// Рэтклиффа-Обершелпа: удвоенное число совпавших символов, делённое на
// суммарную длину. Возвращает значение от 0.0 до 1.0. Работает по рунам,
// поэтому корректен для кириллицы и иной не-ASCII записи.
func SequenceRatio(s1, s2 string) float64 {
	a := []rune(s1)
	b := []rune(s2)

	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}

	matches := matchingRunes(a, b, 0, len(a), 0, len(b))
	return 2.0 * float64(matches) / float64(total)
}

// matchingRunes считает совпавшие символы: находит самый длинный общий
// блок и рекурсивно обрабатывает участки слева и справа от него.
func matchingRunes(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}

	matches := size
	matches += matchingRunes(a, b, alo, i, blo, j)
	matches += matchingRunes(a, b, i+size, ahi, j+size, bhi)
	return matches
}

// longestMatch находит самый длинный общий блок в a[alo:ahi] и b[blo:bhi].
// При равной длине предпочитается блок, начинающийся раньше в a.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (int, int, int) {
	b2j := make(map[rune][]int, bhi-blo)
	for j := blo; j < bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	besti, bestj, bestsize := alo, blo, 0
	j2len := make(map[int]int)

	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	return besti, bestj, bestsize
}
