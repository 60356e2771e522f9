package relay_test

import (
	"fmt"

	"github.com/petrijr/relay"
)

// A subscriber with no live home context and no main worker receives
// events synchronously, on the publisher's goroutine — which makes the
// output deterministic here.
func ExampleSubscribable_On() {
	relay.ResetMain()

	s := relay.New()
	_ = s.On("greet", func(src relay.Observable, args ...any) {
		fmt.Println("hello,", args[0])
	})

	_ = s.Trigger("greet", "world")
	// Output: hello, world
}

func ExampleSubscribable_ListenTo() {
	relay.ResetMain()

	thermometer := relay.New()
	display := relay.New()

	_ = display.ListenTo(thermometer, "reading", func(src relay.Observable, args ...any) {
		fmt.Printf("%.1f°C\n", args[0])
	})

	_ = thermometer.Trigger("reading", 21.5)
	_ = display.StopListening(thermometer, "reading", nil)
	_ = thermometer.Trigger("reading", 23.9)
	// Output: 21.5°C
}
