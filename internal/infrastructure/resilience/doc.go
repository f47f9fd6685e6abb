/*
Package resilience provides circuit breakers for calls into other bus peers.

Activating a search result calls into the knowledge app that owns it. An app
that is broken or slow to start would otherwise make every activation wait
for the full call timeout, so each app gets its own breaker.

# Usage

	group := resilience.NewGroup(resilience.Settings{
		FailureThreshold: 3,
		Cooldown:         30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Launch breaker changed state", zap.String("app", name))
		},
	})

	err := group.Do(appID, func() error {
		return call(ctx, appID)
	})

# States

	Closed --[threshold failures]-> Open --[cooldown]-> Half-Open --[probes succeed]-> Closed
	                                  ^                      |
	                                  +------[probe fails]---+
*/
package resilience
