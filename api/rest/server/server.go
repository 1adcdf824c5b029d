package server

import (
	"github.com/gin-gonic/gin"
)

type Server struct {
	Addr   string
	Engine *gin.Engine
}

func NewServer(addr string) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		Addr:   addr,
		Engine: gin.Default(),
	}

	return s
}

func (s *Server) Run() error {
	return s.Engine.Run(s.Addr)
}
