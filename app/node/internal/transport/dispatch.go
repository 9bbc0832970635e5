package transport

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/dvote/voting/internal/ledger/app"
)

func dispatch(ctx context.Context, application *app.Application, req Request) (Response, error) {
	switch req.Callback {
	case CallbackInfo:
		info := application.Info()
		return Response{Height: info.LastBlockHeight, AppHash: hex.EncodeToString(info.LastBlockAppHash)}, nil

	case CallbackInitChain:
		appStateBytes, err := decodeOptional(req.AppStateBytes)
		if err != nil {
			return Response{}, fmt.Errorf("decoding app_state_bytes: %w", err)
		}
		if err := application.InitChain(app.RequestInitChain{AppStateBytes: appStateBytes}); err != nil {
			return Response{}, err
		}
		return Response{Code: app.OkCode}, nil

	case CallbackCheckTx:
		tx, err := decodeRequired(req.Tx)
		if err != nil {
			return Response{}, fmt.Errorf("decoding tx: %w", err)
		}
		resp := application.CheckTx(tx)
		return Response{Code: resp.Code, Log: resp.Log}, nil

	case CallbackDeliverTx:
		tx, err := decodeRequired(req.Tx)
		if err != nil {
			return Response{}, fmt.Errorf("decoding tx: %w", err)
		}
		resp := application.DeliverTx(ctx, tx)
		return Response{Code: resp.Code, Log: resp.Log}, nil

	case CallbackCommit:
		resp := application.Commit()
		return Response{AppHash: hex.EncodeToString(resp.Data)}, nil

	case CallbackQuery:
		resp := application.Query(req.Path)
		return Response{
			Code:   resp.Code,
			Log:    resp.Log,
			Value:  base64.StdEncoding.EncodeToString(resp.Value),
			Height: resp.Height,
		}, nil

	default:
		return Response{}, fmt.Errorf("unknown callback %q", req.Callback)
	}
}

func decodeRequired(field string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(field)
}

func decodeOptional(field string) ([]byte, error) {
	if field == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(field)
}
