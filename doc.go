// Package studioclient provides a Go client for the Studio admin backend.
//
// The module is split by concern:
//
//   - studioclient (this package): configuration, shared errors, and
//     auth-token inspection helpers
//   - transport: the authenticated HTTP client with CSRF handling and
//     uniform response interception
//   - session: the persisted session store (memory, file, and redis drivers)
//   - realtime: the explicitly-connected websocket channel
//   - notify: user-facing error/success notification sinks
//   - validate: input predicates applied before anything hits the network
//
// A typical setup constructs the pieces once at startup and wires them
// together explicitly:
//
//	cfg, err := studioclient.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sessions, err := session.NewStore(session.StoreTypeFile,
//		session.WithFilePath("session.json"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := transport.New(cfg,
//		transport.WithSessionStore(sessions),
//		transport.WithNotifier(notifier),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	_ = client.InitCSRF(ctx) // best effort, errors intentionally discarded
//
// Every transport operation returns an error only after the user has been
// notified exactly once; a nil error always means the backend answered with
// a status in {200, 201, 202}.
package studioclient
