package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playgrid/tictactoe-backend/internal/apperror"
	"github.com/playgrid/tictactoe-backend/internal/engine"
	"github.com/playgrid/tictactoe-backend/internal/entity"
)

// in-memory fakes for the repositories behind the services

type fakePlayerRepo struct {
	players map[string]*entity.Player
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[string]*entity.Player)}
}

func (that *fakePlayerRepo) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	copied := *player
	that.players[player.ID] = &copied
	return nil
}

func (that *fakePlayerRepo) GetByID(_ context.Context, id string) (*entity.Player, error) {
	player, ok := that.players[id]
	if !ok {
		return &entity.Player{}, apperror.ErrGameIsNotStarted
	}
	copied := *player
	return &copied, nil
}

type fakeGameRepo struct {
	games map[string]*entity.Game
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: make(map[string]*entity.Game)}
}

func (that *fakeGameRepo) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.games[game.ID] = game
	return nil
}

func (that *fakeGameRepo) GetByID(_ context.Context, id string) (*entity.Game, error) {
	game, ok := that.games[id]
	if !ok {
		return &entity.Game{}, apperror.ErrGameIsNotStarted
	}
	return game, nil
}

func (that *fakeGameRepo) GetWaitingPublicGame(_ context.Context) (*entity.Game, error) {
	for _, game := range that.games {
		if game.IsPublic() && game.IsWaiting() {
			return game, nil
		}
	}
	return &entity.Game{}, apperror.ErrGameIsNotStarted
}

func (that *fakeGameRepo) DeleteByID(_ context.Context, id string) error {
	delete(that.games, id)
	return nil
}

type fakeArchiveRepo struct {
	records []*entity.GameRecord
}

func (that *fakeArchiveRepo) Save(_ context.Context, record *entity.GameRecord) error {
	that.records = append(that.records, record)
	return nil
}

func newGamePlayFixture() (GamePlayService, *fakePlayerRepo, *fakeGameRepo, *fakeArchiveRepo) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	playerRepo := newFakePlayerRepo()
	gameRepo := newFakeGameRepo()
	archive := &fakeArchiveRepo{}

	gamePlay := NewGamePlayService(
		logger,
		NewPlayerService(playerRepo),
		NewGameService(gameRepo),
		NewBotService(),
		archive,
	)

	return gamePlay, playerRepo, gameRepo, archive
}

func TestGamePlayService_GetOrCreateGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a private game with the creator as X", func(t *testing.T) {
		// Given: a registered player without a game
		gamePlay, playerRepo, _, _ := newGamePlayFixture()
		player := &entity.Player{ID: "p1"}
		require.NoError(t, playerRepo.CreateOrUpdate(ctx, player))

		// When: the player opens a game
		game, err := gamePlay.GetOrCreateGame(ctx, player, entity.PrivateType)

		// Then: the game waits for an opponent and the creator plays X
		require.NoError(t, err)
		assert.Equal(t, entity.StatusWaiting, game.Status)
		assert.Equal(t, engine.MarkX, game.Players[0].Mark)
		assert.Equal(t, engine.InitialState(), game.Board)
	})

	t.Run("A bot game starts immediately with a bot opponent", func(t *testing.T) {
		// Given: a registered player without a game
		gamePlay, playerRepo, _, _ := newGamePlayFixture()
		player := &entity.Player{ID: "p1"}
		require.NoError(t, playerRepo.CreateOrUpdate(ctx, player))

		// When: the player opens a bot game
		game, err := gamePlay.GetOrCreateGame(ctx, player, entity.WithBotType)

		// Then: the game is ongoing and one of the two players is the bot
		require.NoError(t, err)
		assert.Equal(t, entity.StatusOngoing, game.Status)
		require.Len(t, game.Players, 2)

		var botPlayer *entity.Player
		for _, p := range game.Players {
			if p.IsBot() {
				botPlayer = p
			}
		}
		require.NotNil(t, botPlayer)

		// And: if the bot drew X it has already made its first move
		if botPlayer.Mark == engine.MarkX {
			assert.Equal(t, engine.MarkO, game.Turn())
		} else {
			assert.Equal(t, engine.MarkX, game.Turn())
		}
	})
}

func TestGamePlayService_JoinGameByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Second player joins as O and the game starts", func(t *testing.T) {
		// Given: a waiting private game and a second registered player
		gamePlay, playerRepo, _, _ := newGamePlayFixture()
		creator := &entity.Player{ID: "p1"}
		joiner := &entity.Player{ID: "p2"}
		require.NoError(t, playerRepo.CreateOrUpdate(ctx, creator))
		require.NoError(t, playerRepo.CreateOrUpdate(ctx, joiner))

		game, err := gamePlay.GetOrCreateGame(ctx, creator, entity.PrivateType)
		require.NoError(t, err)

		// When: the second player joins by id
		joined, err := gamePlay.JoinGameByID(ctx, game.ID, joiner.ID)

		// Then: the game is ongoing with two players and O assigned
		require.NoError(t, err)
		assert.Equal(t, entity.StatusOngoing, joined.Status)
		require.Len(t, joined.Players, 2)
		assert.Equal(t, engine.MarkO, joined.Players[1].Mark)
	})

	t.Run("A third player is rejected", func(t *testing.T) {
		// Given: a full game
		gamePlay, playerRepo, _, _ := newGamePlayFixture()
		creator := &entity.Player{ID: "p1"}
		joiner := &entity.Player{ID: "p2"}
		third := &entity.Player{ID: "p3"}
		for _, p := range []*entity.Player{creator, joiner, third} {
			require.NoError(t, playerRepo.CreateOrUpdate(ctx, p))
		}

		game, err := gamePlay.GetOrCreateGame(ctx, creator, entity.PrivateType)
		require.NoError(t, err)
		_, err = gamePlay.JoinGameByID(ctx, game.ID, joiner.ID)
		require.NoError(t, err)

		// When: a third player tries to join
		_, err = gamePlay.JoinGameByID(ctx, game.ID, third.ID)

		// Then: the join is rejected
		assert.ErrorIs(t, err, apperror.ErrGameIsFull)
	})
}

func TestGamePlayService_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Rejects a turn in a waiting game", func(t *testing.T) {
		// Given: a waiting game
		gamePlay, playerRepo, _, _ := newGamePlayFixture()
		player := &entity.Player{ID: "p1"}
		require.NoError(t, playerRepo.CreateOrUpdate(ctx, player))

		_, err := gamePlay.GetOrCreateGame(ctx, player, entity.PrivateType)
		require.NoError(t, err)

		// When: the creator moves before an opponent arrives
		_, err = gamePlay.MakeTurn(ctx, player.ID, engine.Action{Row: 0, Col: 0})

		// Then: the turn is refused
		assert.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("Surfaces ErrInvalidAction for an occupied cell", func(t *testing.T) {
		// Given: an ongoing two-player game with one move made
		gamePlay, playerRepo, _, _ := newGamePlayFixture()
		creator := &entity.Player{ID: "p1"}
		joiner := &entity.Player{ID: "p2"}
		require.NoError(t, playerRepo.CreateOrUpdate(ctx, creator))
		require.NoError(t, playerRepo.CreateOrUpdate(ctx, joiner))

		game, err := gamePlay.GetOrCreateGame(ctx, creator, entity.PrivateType)
		require.NoError(t, err)
		_, err = gamePlay.JoinGameByID(ctx, game.ID, joiner.ID)
		require.NoError(t, err)

		_, err = gamePlay.MakeTurn(ctx, creator.ID, engine.Action{Row: 0, Col: 0})
		require.NoError(t, err)

		// When: the opponent plays the same cell
		_, err = gamePlay.MakeTurn(ctx, joiner.ID, engine.Action{Row: 0, Col: 0})

		// Then: the invalid action error reaches the caller
		assert.ErrorIs(t, err, apperror.ErrInvalidAction)
	})

	t.Run("Bot replies with the optimal move in a bot game", func(t *testing.T) {
		// Given: an ongoing bot game where the human plays X
		gamePlay, playerRepo, gameRepo, _ := newGamePlayFixture()

		game := entity.NewGame("g1", entity.WithBotType)
		game.Status = entity.StatusOngoing
		human := &entity.Player{ID: "p1", Mark: engine.MarkX, GameID: "g1"}
		game.Players = []*entity.Player{human, entity.NewBotPlayer("g1", engine.MarkO)}
		require.NoError(t, playerRepo.CreateOrUpdate(ctx, human))
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: the human takes a corner
		updated, err := gamePlay.MakeTurn(ctx, "p1", engine.Action{Row: 0, Col: 0})

		// Then: the bot has answered with the center, the only non-losing reply
		require.NoError(t, err)
		assert.Equal(t, engine.MarkX, updated.Board[0][0])
		assert.Equal(t, engine.MarkO, updated.Board[1][1])
		assert.Equal(t, engine.MarkX, updated.Turn())

		stored, err := gameRepo.GetByID(ctx, updated.ID)
		require.NoError(t, err)
		assert.Equal(t, updated.Board, stored.Board)
	})

	t.Run("Finished game is archived with its outcome", func(t *testing.T) {
		// Given: an ongoing two-player game
		gamePlay, playerRepo, _, archive := newGamePlayFixture()
		creator := &entity.Player{ID: "p1"}
		joiner := &entity.Player{ID: "p2"}
		require.NoError(t, playerRepo.CreateOrUpdate(ctx, creator))
		require.NoError(t, playerRepo.CreateOrUpdate(ctx, joiner))

		game, err := gamePlay.GetOrCreateGame(ctx, creator, entity.PrivateType)
		require.NoError(t, err)
		_, err = gamePlay.JoinGameByID(ctx, game.ID, joiner.ID)
		require.NoError(t, err)

		// When: X wins the top row
		turns := []struct {
			playerID string
			action   engine.Action
		}{
			{creator.ID, engine.Action{Row: 0, Col: 0}},
			{joiner.ID, engine.Action{Row: 1, Col: 0}},
			{creator.ID, engine.Action{Row: 0, Col: 1}},
			{joiner.ID, engine.Action{Row: 1, Col: 1}},
			{creator.ID, engine.Action{Row: 0, Col: 2}},
		}
		for _, turn := range turns {
			_, err = gamePlay.MakeTurn(ctx, turn.playerID, turn.action)
			require.NoError(t, err)
		}

		// Then: the archive holds one record with the X win
		require.Len(t, archive.records, 1)
		assert.Equal(t, game.ID, archive.records[0].GameID)
		assert.Equal(t, engine.MarkX, archive.records[0].Winner)
		assert.Equal(t, 1, archive.records[0].Score)
	})
}
