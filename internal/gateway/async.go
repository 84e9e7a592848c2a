package gateway

// Async runs operation on its own goroutine. The returned channel receives exactly one value.
//
//	heroes := <-gateway.Async(gw.GetHeroes)
func Async[T any](operation func() T) <-chan T {
	result := make(chan T, 1)
	go func() {
		result <- operation()
	}()
	return result
}
