// Package personapool manages the UI automation sessions of an end-to-end
// test run, one per persona.
//
// A scenario such as "the buyer pays, the seller sees the order" drives
// several actors at once. Each actor is a persona with its own browser or
// mobile app session. The pool creates those sessions on demand, enforces a
// per-platform limit on how many may run concurrently, remembers which
// persona owns which session, and tears all of them down at the end of the
// scenario.
//
// # Basic Usage
//
//	rc := &personapool.RunContext{
//	    TestName:       "checkout",
//	    ScenarioLogDir: "logs/checkout",
//	    BaseURL:        "https://shop.example.test",
//	}
//	pool := personapool.NewPool(rc)
//	defer func() {
//	    if err := pool.TeardownAll(ctx); err != nil {
//	        log.Printf("teardown: %v", err) // informational only
//	    }
//	}()
//
//	buyer, err := pool.Allocate(ctx, "buyer", personapool.PlatformWeb)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	browser := buyer.Session().(personapool.Browser)
//
// # Platforms
//
// Android sessions reuse the mobile driver handed in through
// RunContext.MobileDriver; at most one persona holds it at a time. Web
// sessions start a Chrome browser per persona, locally through chromedriver
// or on a Selenium hub when RunContext.Mode is ModeUnattended. Two browsers
// may run concurrently. Further platforms are added with WithPolicies.
//
// # Concurrency
//
// A Pool is not safe for concurrent use. Scenarios drive their personas from
// one goroutine and the pool never starts goroutines of its own that touch
// its state.
package personapool
