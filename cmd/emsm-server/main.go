package main

import (
	"flag"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/RajeshRk18/stealthsnark/internal/transport"
)

func main() {
	addr := flag.String("addr", "0.0.0.0:3000", "address to listen on")
	flag.Parse()

	srv := transport.NewServer()
	log.Info().Str("addr", *addr).Msg("emsm-server: listening")
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		log.Fatal().Err(err).Msg("emsm-server: exited")
	}
}
