package worker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSpawn_RunsInitialTaskBeforeQueue(t *testing.T) {
	t.Parallel()

	var order []string
	var mu sync.Mutex
	note := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, s)
	}

	w := Spawn(func() {
		// Submissions made before the initial task finishes must still run
		// after it.
		note("initial")
		time.Sleep(5 * time.Millisecond)
	})
	defer w.Stop()

	require.NoError(t, w.Submit(func() { note("queued") }))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 2
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"initial", "queued"}, order)
}

func TestWorker_FIFOOrder(t *testing.T) {
	t.Parallel()

	w := Spawn(nil)
	defer w.Stop()

	const n = 500
	var mu sync.Mutex
	var got []int

	for i := 0; i < n; i++ {
		i := i
		require.NoError(t, w.Submit(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == n
	}, 5*time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for i := 0; i < n; i++ {
		require.Equal(t, i, got[i], "task executed out of submission order")
	}
}

func TestWorker_PerProducerOrderAcrossGoroutines(t *testing.T) {
	t.Parallel()

	w := Spawn(nil)
	defer w.Stop()

	const producers = 4
	const perProducer = 200

	var mu sync.Mutex
	got := make(map[int][]int, producers)

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		p := p
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				i := i
				_ = w.Submit(func() {
					mu.Lock()
					got[p] = append(got[p], i)
					mu.Unlock()
				})
			}
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		total := 0
		for _, seq := range got {
			total += len(seq)
		}
		return total == producers*perProducer
	}, 5*time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for p, seq := range got {
		for i, v := range seq {
			require.Equal(t, i, v, "producer %d observed reordering", p)
		}
	}
}

func TestWorker_SubmitNilTask(t *testing.T) {
	t.Parallel()

	w := Spawn(nil)
	defer w.Stop()

	require.ErrorIs(t, w.Submit(nil), ErrNilTask)
}

func TestWorker_AliveTracksGoroutineLifetime(t *testing.T) {
	t.Parallel()

	w := Spawn(nil)
	require.True(t, w.Alive(), "worker should be live right after Spawn")

	w.Stop()
	<-w.Done()
	require.False(t, w.Alive(), "worker should leave the registry after exit")

	require.ErrorIs(t, w.Submit(func() {}), ErrStopped)
}

func TestWorker_StopDrainsQueuedTasks(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	w := Spawn(func() { <-gate })

	var mu sync.Mutex
	var ran int
	for i := 0; i < 10; i++ {
		require.NoError(t, w.Submit(func() {
			mu.Lock()
			ran++
			mu.Unlock()
		}))
	}

	w.Stop()
	close(gate)
	<-w.Done()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 10, ran, "tasks submitted before Stop must still run")
}
