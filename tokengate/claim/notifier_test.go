package claim

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

type fakeDMREST struct {
	channelOpts []rest.RequestOpt
	messageOpts []rest.RequestOpt
	sent        []discord.MessageCreate
	channelErr  error
	messageErr  error
}

func (f *fakeDMREST) CreateDMChannel(userID snowflake.ID, opts ...rest.RequestOpt) (*discord.DMChannel, error) {
	f.channelOpts = opts
	if f.channelErr != nil {
		return nil, f.channelErr
	}
	return &discord.DMChannel{}, nil
}

func (f *fakeDMREST) CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error) {
	f.messageOpts = opts
	if f.messageErr != nil {
		return nil, f.messageErr
	}
	f.sent = append(f.sent, messageCreate)
	return &discord.Message{}, nil
}

func requestCtx(t *testing.T, opts []rest.RequestOpt) context.Context {
	t.Helper()
	var cfg rest.RequestConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg.Ctx
}

func TestSendDMThreadsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rc := &fakeDMREST{}
	embed := discord.NewEmbedBuilder().SetTitle("receipt").Build()
	if err := sendDM(ctx, rc, snowflake.ID(42), embed); err != nil {
		t.Fatalf("sendDM() error = %v", err)
	}

	if got := requestCtx(t, rc.channelOpts); got != ctx {
		t.Errorf("CreateDMChannel request ctx = %v, want the caller's ctx", got)
	}
	if got := requestCtx(t, rc.messageOpts); got != ctx {
		t.Errorf("CreateMessage request ctx = %v, want the caller's ctx", got)
	}
	if len(rc.sent) != 1 || len(rc.sent[0].Embeds) != 1 || rc.sent[0].Embeds[0].Title != "receipt" {
		t.Errorf("sent messages = %+v, want one message carrying the embed", rc.sent)
	}
}

func TestSendDMChannelFailure(t *testing.T) {
	rc := &fakeDMREST{channelErr: errors.New("dms closed")}
	err := sendDM(context.Background(), rc, snowflake.ID(42), discord.Embed{})
	if err == nil {
		t.Fatal("sendDM() error = nil, want channel failure")
	}
	if len(rc.sent) != 0 {
		t.Errorf("sent messages = %d, want none after channel failure", len(rc.sent))
	}
}

func TestSendDMMessageFailure(t *testing.T) {
	rc := &fakeDMREST{messageErr: errors.New("blocked")}
	err := sendDM(context.Background(), rc, snowflake.ID(42), discord.Embed{})
	if err == nil {
		t.Fatal("sendDM() error = nil, want send failure")
	}
}
