package groups

import "sort"

// GenerateCombinations возвращает все непрерывные отрезки последовательности длиной от 2
//
// Результат отсортирован по длине по возрастанию; отрезки одной длины идут в порядке
// начального индекса. Для N столов получается N*(N-1)/2 комбинаций.
func GenerateCombinations(tableIDs []int64) [][]int64 {
	n := len(tableIDs)
	if n < 2 {
		return [][]int64{}
	}

	combinations := make([][]int64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 2; j <= n; j++ {
			combination := make([]int64, j-i)
			copy(combination, tableIDs[i:j])
			combinations = append(combinations, combination)
		}
	}

	sort.SliceStable(combinations, func(a, b int) bool {
		return len(combinations[a]) < len(combinations[b])
	})

	return combinations
}
