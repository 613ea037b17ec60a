// Package osctrigger is a network control surface: it maps OSC messages
// onto cue playback and blackout, going through the same command channel as
// every other front-end.
package osctrigger

import (
	"strconv"

	"github.com/hypebeast/go-osc/osc"
	"github.com/lumahq/luma/cuelist"
	"github.com/lumahq/luma/logger"
	"github.com/lumahq/luma/universe"
	"github.com/sirupsen/logrus"
)

// Server listens for OSC control messages.
type Server struct {
	server *osc.Server
	sender cuelist.Sender
	engine *cuelist.Engine
	log    *logrus.Entry
}

// New creates a server on the given listen address ("host:port").
func New(listen string, sender cuelist.Sender, engine *cuelist.Engine) *Server {
	s := &Server{
		sender: sender,
		engine: engine,
		log:    logger.GetProjectLogger(),
	}

	dispatcher := osc.NewStandardDispatcher()
	must := func(addr string, handler osc.HandlerFunc) {
		if err := dispatcher.AddMsgHandler(addr, handler); err != nil {
			s.log.Errorf("registering OSC handler %s: %v", addr, err)
		}
	}
	must("/luma/go", s.handleGo)
	must("/luma/back", s.handleBack)
	must("/luma/goto", s.handleGoTo)
	must("/luma/blackout", s.handleBlackout)

	s.server = &osc.Server{Addr: listen, Dispatcher: dispatcher}
	return s
}

// ListenAndServe blocks serving OSC messages.
func (s *Server) ListenAndServe() error {
	s.log.Infof("OSC control surface listening on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) handleGo(msg *osc.Message) {
	if err := s.engine.Go(); err != nil {
		s.log.Warnf("OSC go: %v", err)
	}
}

func (s *Server) handleBack(msg *osc.Message) {
	if err := s.engine.Back(); err != nil {
		s.log.Warnf("OSC back: %v", err)
	}
}

func (s *Server) handleGoTo(msg *osc.Message) {
	ref, ok := gotoRef(msg)
	if !ok {
		s.log.Warn("OSC goto needs a cue name or number argument")
		return
	}
	if err := s.engine.GoTo(ref); err != nil {
		s.log.Warnf("OSC goto %q: %v", ref, err)
	}
}

func (s *Server) handleBlackout(msg *osc.Message) {
	if err := s.sender.Send(universe.Blackout{}); err != nil {
		s.log.Warnf("OSC blackout: %v", err)
	}
}

// gotoRef extracts the cue reference from the message's first argument,
// which may arrive as a string or any OSC integer type.
func gotoRef(msg *osc.Message) (string, bool) {
	if len(msg.Arguments) == 0 {
		return "", false
	}
	switch arg := msg.Arguments[0].(type) {
	case string:
		return arg, true
	case int32:
		return strconv.Itoa(int(arg)), true
	case int64:
		return strconv.Itoa(int(arg)), true
	}
	return "", false
}
