package detect

import "sort"

// ExtractChains partitions all candidate indices into connected components of
// the adjacency graph, singletons included. Traversal is breadth-first from
// ascending start indices with neighbour lists already sorted, so the
// partition and the order of components are identical across runs on the
// same input.
func ExtractChains(adj [][]int) [][]int {
	visited := make([]bool, len(adj))
	var components [][]int

	for start := range adj {
		if visited[start] {
			continue
		}
		component := []int{}
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			component = append(component, node)
			for _, n := range adj[node] {
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
		sort.Ints(component)
		components = append(components, component)
	}
	return components
}
