package main

import (
	"v2browse/internal/config"
	"v2browse/internal/container"
	"v2browse/internal/log"
	"v2browse/internal/service"
	"v2browse/internal/session"
	"v2browse/internal/store"
)

// runtime wires a session to the service client and the container store.
type runtime struct {
	cfg     *config.Config
	logger  *log.Logger
	store   store.Store
	session *session.Session
}

func newClient(cfg *config.Config, logger *log.Logger) (*service.Client, error) {
	return service.New(cfg.Service.BaseURL,
		service.WithTimeout(cfg.Service.Timeout),
		service.WithLogger(logger),
	)
}

func openRuntime(cfg *config.Config, logger *log.Logger) (*runtime, error) {
	client, err := newClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}

	mgr, err := container.NewManager(
		container.NewReconciler(cfg.Selection.Mode),
		container.NewPersister(st, cfg.Storage.Key, logger),
	)
	if err != nil {
		logger.With(log.ErrorFields(err)...).Warn("Saved container unreadable, starting empty")
	}

	return &runtime{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		session: session.New(client, mgr, session.WithLogger(logger)),
	}, nil
}

// watch follows container writes by other processes when the store
// supports it and storage.watch is on. stop is never nil.
func (r *runtime) watch() (<-chan []byte, func()) {
	noop := func() {}
	if !r.cfg.Storage.Watch {
		return nil, noop
	}
	w, ok := r.store.(store.Watchable)
	if !ok {
		r.logger.With(log.F("driver", r.cfg.Storage.Driver)).Debug("Storage driver cannot be watched")
		return nil, noop
	}
	ch, stop, err := w.Watch(r.cfg.Storage.Key)
	if err != nil {
		r.logger.With(log.ErrorFields(err)...).Warn("Not following container changes")
		return nil, noop
	}
	return ch, stop
}

func (r *runtime) Close() error {
	return r.store.Close()
}
