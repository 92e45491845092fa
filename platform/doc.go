// Package platform wires the SDK together from one Config.
//
// A Platform owns the transport stack (HTTP sender, optional guard and
// telemetry middleware), the response cache and the token cache, and hands
// out requests, login sessions and actors built on them.
//
//	cfg, err := platform.FromEnv(ctx)
//	if err != nil {
//		return err
//	}
//	p, err := platform.New(cfg)
//	if err != nil {
//		return err
//	}
//	resp := p.NewRequest("item", "view").Execute(ctx)
//
// Configuration errors wrap request.ErrInvalidConfig.
package platform
