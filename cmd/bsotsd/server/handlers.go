package server

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"io"
	"net/http"

	"github.com/ipfs/go-cid"

	"github.com/samkim-crypto/bsaggots/internal/bsots"
	bscid "github.com/samkim-crypto/bsaggots/internal/cid"
	"github.com/samkim-crypto/bsaggots/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":  "healthy",
		"service": "bsotsd",
	}
	s.writeResponse(w, http.StatusOK, health, nil)
}

// GenerateKeyResponse is the body returned by POST /v1/keys.
type GenerateKeyResponse struct {
	SecretKey   string `json:"secret_key"`
	PublicKey   string `json:"public_key"`
	PublicKeyID string `json:"public_key_id"`
}

func (s *Server) handleGenerateKey(w http.ResponseWriter, r *http.Request) {
	sk, pk, err := bsots.KeyGen(rand.Reader)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	pkBytes := pk.Bytes()
	pkCID, err := s.keyStore.StorePublicKey(r.Context(), pkBytes[:])
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	skBytes := sk.Bytes()
	s.writeResponse(w, http.StatusCreated, GenerateKeyResponse{
		SecretKey:   base64.StdEncoding.EncodeToString(skBytes[:]),
		PublicKey:   base64.StdEncoding.EncodeToString(pkBytes[:]),
		PublicKeyID: pkCID,
	}, nil)
}

// SignRequest is the body for POST /v1/sign.
type SignRequest struct {
	SecretKey string `json:"secret_key" validate:"required"`
	PublicKey string `json:"public_key" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

// SignResponse is the body returned by POST /v1/sign.
type SignResponse struct {
	Signature   string `json:"signature"`
	SignatureID string `json:"signature_id"`
}

func (s *Server) handleSign(w http.ResponseWriter, r *http.Request) {
	var req SignRequest
	if err := s.parseJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	skBytes, err := base64.StdEncoding.DecodeString(req.SecretKey)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	pkBytes, err := base64.StdEncoding.DecodeString(req.PublicKey)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	message, err := base64.StdEncoding.DecodeString(req.Message)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	sk, err := bsots.DecodeSecretKey(skBytes)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	gen := bscid.NewCIDGenerator()
	pkCID, err := gen.GeneratePublicKeyCID(pkBytes)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	used, err := s.keyStore.IsKeyUsed(r.Context(), pkCID.String())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if used {
		s.writeError(w, http.StatusConflict, errors.New("public key has already signed a message"))
		return
	}

	sig, err := bsots.Sign(sk, bytes.NewReader(message))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	if err := s.keyStore.MarkKeyUsed(r.Context(), pkCID.String()); err != nil && !store.IsExists(err) {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	sigBytes := sig.Bytes()
	sigCID, err := s.keyStore.StoreSignature(r.Context(), sigBytes[:])
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeResponse(w, http.StatusCreated, SignResponse{
		Signature:   base64.StdEncoding.EncodeToString(sigBytes[:]),
		SignatureID: sigCID,
	}, nil)
}

// VerifyRequest is the body for POST /v1/verify.
type VerifyRequest struct {
	PublicKey string `json:"public_key" validate:"required"`
	Message   string `json:"message" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// VerifyResponse is the body returned by POST /v1/verify.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := s.parseJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	pk, message, sig, err := decodeVerifyFields(req.PublicKey, req.Message, req.Signature)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	valid, err := bsots.Verify(pk, bytes.NewReader(message), sig)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeResponse(w, http.StatusOK, VerifyResponse{Valid: valid}, nil)
}

func decodeVerifyFields(pkB64, msgB64, sigB64 string) (bsots.PublicKey, []byte, bsots.Signature, error) {
	pkBytes, err := base64.StdEncoding.DecodeString(pkB64)
	if err != nil {
		return bsots.PublicKey{}, nil, bsots.Signature{}, err
	}
	message, err := base64.StdEncoding.DecodeString(msgB64)
	if err != nil {
		return bsots.PublicKey{}, nil, bsots.Signature{}, err
	}
	sigBytes, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return bsots.PublicKey{}, nil, bsots.Signature{}, err
	}

	pk, err := bsots.DecodePublicKey(pkBytes)
	if err != nil {
		return bsots.PublicKey{}, nil, bsots.Signature{}, err
	}
	sig, err := bsots.DecodeSignature(sigBytes)
	if err != nil {
		return bsots.PublicKey{}, nil, bsots.Signature{}, err
	}
	return pk, message, sig, nil
}

// AggregateRequest is the body for POST /v1/aggregate. PublicKeys,
// Messages, and Signatures must all be the same length and in matching
// per-signer order.
type AggregateRequest struct {
	PublicKeys []string `json:"public_keys" validate:"required,min=1"`
	Messages   []string `json:"messages" validate:"required,min=1"`
	Signatures []string `json:"signatures" validate:"required,min=1"`
}

// AggregateResponse is the body returned by POST /v1/aggregate.
type AggregateResponse struct {
	AggregateSignature string `json:"aggregate_signature"`
	ManifestID         string `json:"manifest_id"`
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	var req AggregateRequest
	if err := s.parseJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if len(req.PublicKeys) != len(req.Messages) || len(req.PublicKeys) != len(req.Signatures) {
		s.writeError(w, http.StatusBadRequest, errors.New("public_keys, messages and signatures must have equal length"))
		return
	}

	pks := make([]bsots.PublicKey, len(req.PublicKeys))
	msgs := make([]io.Reader, len(req.PublicKeys))
	sigs := make([]bsots.Signature, len(req.PublicKeys))
	rawMsgs := make([][]byte, len(req.PublicKeys))
	rawPKs := make([][]byte, len(req.PublicKeys))

	for i := range req.PublicKeys {
		pkBytes, err := base64.StdEncoding.DecodeString(req.PublicKeys[i])
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		message, err := base64.StdEncoding.DecodeString(req.Messages[i])
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		sigBytes, err := base64.StdEncoding.DecodeString(req.Signatures[i])
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}

		pk, err := bsots.DecodePublicKey(pkBytes)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		sig, err := bsots.DecodeSignature(sigBytes)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}

		pks[i] = pk
		msgs[i] = bytes.NewReader(message)
		sigs[i] = sig
		rawMsgs[i] = message
		rawPKs[i] = pkBytes
	}

	aggSig, err := bsots.Aggregate(pks, msgs, sigs)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	manifestCID, err := s.buildAndStoreManifest(r.Context(), rawPKs, rawMsgs, aggSig)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	aggSigBytes := aggSig.Bytes()
	s.writeResponse(w, http.StatusCreated, AggregateResponse{
		AggregateSignature: base64.StdEncoding.EncodeToString(aggSigBytes[:]),
		ManifestID:         manifestCID,
	}, nil)
}

func (s *Server) buildAndStoreManifest(ctx context.Context, rawPKs [][]byte, rawMsgs [][]byte, aggSig bsots.Signature) (string, error) {
	gen := bscid.NewCIDGenerator()

	pkCIDs := make([]cid.Cid, len(rawPKs))
	digests := make([][]byte, len(rawMsgs))
	for i, pkBytes := range rawPKs {
		c, err := gen.GeneratePublicKeyCID(pkBytes)
		if err != nil {
			return "", err
		}
		pkCIDs[i] = c

		digest := sha512.Sum512(rawMsgs[i])
		digests[i] = digest[:]
	}

	aggSigBytes := aggSig.Bytes()
	aggSigCID, err := gen.GenerateSignatureCID(aggSigBytes[:])
	if err != nil {
		return "", err
	}

	_, manifest, err := gen.GenerateBatchManifest(pkCIDs, digests, aggSigCID)
	if err != nil {
		return "", err
	}

	manifestJSON, err := bscid.CanonicalizeJSON(manifest)
	if err != nil {
		return "", err
	}

	return s.keyStore.StoreBatchManifest(ctx, manifestJSON)
}

// AggregateVerifyRequest is the body for POST /v1/aggregate-verify.
type AggregateVerifyRequest struct {
	PublicKeys         []string `json:"public_keys" validate:"required,min=1"`
	Messages           []string `json:"messages" validate:"required,min=1"`
	AggregateSignature string   `json:"aggregate_signature" validate:"required"`
}

func (s *Server) handleAggregateVerify(w http.ResponseWriter, r *http.Request) {
	var req AggregateVerifyRequest
	if err := s.parseJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if len(req.PublicKeys) != len(req.Messages) {
		s.writeError(w, http.StatusBadRequest, errors.New("public_keys and messages must have equal length"))
		return
	}

	aggSigBytes, err := base64.StdEncoding.DecodeString(req.AggregateSignature)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	aggSig, err := bsots.DecodeSignature(aggSigBytes)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	pks := make([]bsots.PublicKey, len(req.PublicKeys))
	msgs := make([]io.Reader, len(req.PublicKeys))
	for i := range req.PublicKeys {
		pkBytes, err := base64.StdEncoding.DecodeString(req.PublicKeys[i])
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		message, err := base64.StdEncoding.DecodeString(req.Messages[i])
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		pk, err := bsots.DecodePublicKey(pkBytes)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		pks[i] = pk
		msgs[i] = bytes.NewReader(message)
	}

	valid, err := bsots.AggregateVerify(pks, msgs, aggSig)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeResponse(w, http.StatusOK, VerifyResponse{Valid: valid}, nil)
}
