package contracts

const erc20ABIJSON = `[
  {"inputs": [], "name": "decimals", "outputs": [{"type": "uint8"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "symbol", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "name", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "totalSupply", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "account", "type": "address"}], "name": "balanceOf", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "owner", "type": "address"}, {"name": "spender", "type": "address"}], "name": "allowance", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "spender", "type": "address"}, {"name": "amount", "type": "uint256"}], "name": "approve", "outputs": [{"type": "bool"}], "stateMutability": "nonpayable", "type": "function"},
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "from", "type": "address"},
      {"indexed": true, "name": "to", "type": "address"},
      {"indexed": false, "name": "value", "type": "uint256"}
    ],
    "name": "Transfer",
    "type": "event"
  }
]`

const poolABIJSON = `[
  {"inputs": [], "name": "totalSupply", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getCurrentTokens", "outputs": [{"type": "address[]"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getFinalTokens", "outputs": [{"type": "address[]"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getController", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getBaseTokenAddress", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getDatatokenAddress", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getMarketFeeCollector", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getOPCCollector", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "t", "type": "address"}], "name": "isBound", "outputs": [{"type": "bool"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "isFinalized", "outputs": [{"type": "bool"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "token", "type": "address"}], "name": "getBalance", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getSwapFee", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getMarketFee", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "token", "type": "address"}], "name": "getNormalizedWeight", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "token", "type": "address"}], "name": "getDenormalizedWeight", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getTotalDenormalizedWeight", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "token", "type": "address"}], "name": "publishMarketFees", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "token", "type": "address"}], "name": "communityFees", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getCurrentMarketFees", "outputs": [{"name": "tokens", "type": "address[]"}, {"name": "amounts", "type": "uint256[]"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getCurrentOPCFees", "outputs": [{"name": "tokens", "type": "address[]"}, {"name": "amounts", "type": "uint256[]"}], "stateMutability": "view", "type": "function"},
  {
    "inputs": [
      {"name": "tokenIn", "type": "address"},
      {"name": "tokenOut", "type": "address"},
      {"name": "_consumeMarketSwapFee", "type": "uint256"}
    ],
    "name": "getSpotPrice",
    "outputs": [{"name": "spotPrice", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"name": "tokenIn", "type": "address"},
      {"name": "tokenOut", "type": "address"},
      {"name": "tokenAmountOut", "type": "uint256"},
      {"name": "_consumeMarketSwapFee", "type": "uint256"}
    ],
    "name": "getAmountInExactOut",
    "outputs": [
      {"name": "tokenAmountIn", "type": "uint256"},
      {"name": "lpFeeAmount", "type": "uint256"},
      {"name": "oceanFeeAmount", "type": "uint256"},
      {"name": "publishMarketSwapFeeAmount", "type": "uint256"},
      {"name": "consumeMarketSwapFeeAmount", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"name": "tokenIn", "type": "address"},
      {"name": "tokenOut", "type": "address"},
      {"name": "tokenAmountIn", "type": "uint256"},
      {"name": "_consumeMarketSwapFee", "type": "uint256"}
    ],
    "name": "getAmountOutExactIn",
    "outputs": [
      {"name": "tokenAmountOut", "type": "uint256"},
      {"name": "lpFeeAmount", "type": "uint256"},
      {"name": "oceanFeeAmount", "type": "uint256"},
      {"name": "publishMarketSwapFeeAmount", "type": "uint256"},
      {"name": "consumeMarketSwapFeeAmount", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {"inputs": [{"name": "tokenIn", "type": "address"}, {"name": "tokenAmountIn", "type": "uint256"}], "name": "calcPoolOutGivenSingleIn", "outputs": [{"name": "poolAmountOut", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "tokenIn", "type": "address"}, {"name": "poolAmountOut", "type": "uint256"}], "name": "calcSingleInGivenPoolOut", "outputs": [{"name": "tokenAmountIn", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "tokenOut", "type": "address"}, {"name": "poolAmountIn", "type": "uint256"}], "name": "calcSingleOutGivenPoolIn", "outputs": [{"name": "tokenAmountOut", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "tokenOut", "type": "address"}, {"name": "tokenAmountOut", "type": "uint256"}], "name": "calcPoolInGivenSingleOut", "outputs": [{"name": "poolAmountIn", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {
    "inputs": [
      {"name": "tokenInOutMarket", "type": "address[3]"},
      {"name": "amountsInOutMaxFee", "type": "uint256[4]"}
    ],
    "name": "swapExactAmountIn",
    "outputs": [{"name": "tokenAmountOut", "type": "uint256"}, {"name": "spotPriceAfter", "type": "uint256"}],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"name": "tokenInOutMarket", "type": "address[3]"},
      {"name": "amountsInOutMaxFee", "type": "uint256[4]"}
    ],
    "name": "swapExactAmountOut",
    "outputs": [{"name": "tokenAmountIn", "type": "uint256"}, {"name": "spotPriceAfter", "type": "uint256"}],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {"inputs": [{"name": "poolAmountOut", "type": "uint256"}, {"name": "maxAmountsIn", "type": "uint256[]"}], "name": "joinPool", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "poolAmountIn", "type": "uint256"}, {"name": "minAmountsOut", "type": "uint256[]"}], "name": "exitPool", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "tokenIn", "type": "address"}, {"name": "tokenAmountIn", "type": "uint256"}, {"name": "minPoolAmountOut", "type": "uint256"}], "name": "joinswapExternAmountIn", "outputs": [{"name": "poolAmountOut", "type": "uint256"}], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "tokenIn", "type": "address"}, {"name": "poolAmountOut", "type": "uint256"}, {"name": "maxAmountIn", "type": "uint256"}], "name": "joinswapPoolAmountOut", "outputs": [{"name": "tokenAmountIn", "type": "uint256"}], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "tokenOut", "type": "address"}, {"name": "poolAmountIn", "type": "uint256"}, {"name": "minAmountOut", "type": "uint256"}], "name": "exitswapPoolAmountIn", "outputs": [{"name": "tokenAmountOut", "type": "uint256"}], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "tokenOut", "type": "address"}, {"name": "tokenAmountOut", "type": "uint256"}, {"name": "maxPoolAmountIn", "type": "uint256"}], "name": "exitswapExternAmountOut", "outputs": [{"name": "poolAmountIn", "type": "uint256"}], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [], "name": "collectOPC", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [], "name": "collectMarketFee", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "_newCollector", "type": "address"}, {"name": "_newSwapFee", "type": "uint256"}], "name": "updatePublishMarketFee", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "caller", "type": "address"},
      {"indexed": true, "name": "tokenIn", "type": "address"},
      {"indexed": true, "name": "tokenOut", "type": "address"},
      {"indexed": false, "name": "tokenAmountIn", "type": "uint256"},
      {"indexed": false, "name": "tokenAmountOut", "type": "uint256"},
      {"indexed": false, "name": "timestamp", "type": "uint256"},
      {"indexed": false, "name": "inBalance", "type": "uint256"},
      {"indexed": false, "name": "outBalance", "type": "uint256"},
      {"indexed": false, "name": "newSpotPrice", "type": "uint256"}
    ],
    "name": "LOG_SWAP",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "caller", "type": "address"},
      {"indexed": true, "name": "tokenIn", "type": "address"},
      {"indexed": false, "name": "tokenAmountIn", "type": "uint256"},
      {"indexed": false, "name": "timestamp", "type": "uint256"}
    ],
    "name": "LOG_JOIN",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "caller", "type": "address"},
      {"indexed": true, "name": "tokenOut", "type": "address"},
      {"indexed": false, "name": "tokenAmountOut", "type": "uint256"},
      {"indexed": false, "name": "timestamp", "type": "uint256"}
    ],
    "name": "LOG_EXIT",
    "type": "event"
  }
]`

const fixedRateABIJSON = `[
  {
    "inputs": [
      {"name": "baseToken", "type": "address"},
      {"name": "datatoken", "type": "address"},
      {"name": "exchangeOwner", "type": "address"}
    ],
    "name": "generateExchangeId",
    "outputs": [{"type": "bytes32"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"name": "exchangeId", "type": "bytes32"},
      {"name": "datatokenAmount", "type": "uint256"},
      {"name": "maxBaseTokenAmount", "type": "uint256"},
      {"name": "consumeMarketAddress", "type": "address"},
      {"name": "consumeMarketSwapFeeAmount", "type": "uint256"}
    ],
    "name": "buyDT",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"name": "exchangeId", "type": "bytes32"},
      {"name": "datatokenAmount", "type": "uint256"},
      {"name": "minBaseTokenAmount", "type": "uint256"},
      {"name": "consumeMarketAddress", "type": "address"},
      {"name": "consumeMarketSwapFeeAmount", "type": "uint256"}
    ],
    "name": "sellDT",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {"inputs": [], "name": "getNumberOfExchanges", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getExchanges", "outputs": [{"type": "bytes32[]"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getOPCCollector", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "router", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "exchangeId", "type": "bytes32"}, {"name": "newRate", "type": "uint256"}], "name": "setRate", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "exchangeId", "type": "bytes32"}, {"name": "newAllowedSwapper", "type": "address"}], "name": "setAllowedSwapper", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "exchangeId", "type": "bytes32"}], "name": "toggleExchangeState", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "exchangeId", "type": "bytes32"}, {"name": "withMint", "type": "bool"}], "name": "toggleMintState", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "exchangeId", "type": "bytes32"}, {"name": "_newMarketFee", "type": "uint256"}], "name": "updateMarketFee", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "exchangeId", "type": "bytes32"}, {"name": "_newMarketCollector", "type": "address"}], "name": "updateMarketFeeCollector", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "exchangeId", "type": "bytes32"}], "name": "getRate", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "exchangeId", "type": "bytes32"}], "name": "getDTSupply", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "exchangeId", "type": "bytes32"}], "name": "getBTSupply", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "exchangeId", "type": "bytes32"}], "name": "getAllowedSwapper", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "exchangeId", "type": "bytes32"}], "name": "isActive", "outputs": [{"type": "bool"}], "stateMutability": "view", "type": "function"},
  {
    "inputs": [
      {"name": "exchangeId", "type": "bytes32"},
      {"name": "datatokenAmount", "type": "uint256"},
      {"name": "consumeMarketSwapFeeAmount", "type": "uint256"}
    ],
    "name": "calcBaseInGivenOutDT",
    "outputs": [
      {"name": "baseTokenAmount", "type": "uint256"},
      {"name": "oceanFeeAmount", "type": "uint256"},
      {"name": "publishMarketFeeAmount", "type": "uint256"},
      {"name": "consumeMarketFeeAmount", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"name": "exchangeId", "type": "bytes32"},
      {"name": "datatokenAmount", "type": "uint256"},
      {"name": "consumeMarketSwapFeeAmount", "type": "uint256"}
    ],
    "name": "calcBaseOutGivenInDT",
    "outputs": [
      {"name": "baseTokenAmount", "type": "uint256"},
      {"name": "oceanFeeAmount", "type": "uint256"},
      {"name": "publishMarketFeeAmount", "type": "uint256"},
      {"name": "consumeMarketFeeAmount", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"name": "exchangeId", "type": "bytes32"}],
    "name": "getExchange",
    "outputs": [
      {"name": "exchangeOwner", "type": "address"},
      {"name": "datatoken", "type": "address"},
      {"name": "dtDecimals", "type": "uint256"},
      {"name": "baseToken", "type": "address"},
      {"name": "btDecimals", "type": "uint256"},
      {"name": "fixedRate", "type": "uint256"},
      {"name": "active", "type": "bool"},
      {"name": "dtSupply", "type": "uint256"},
      {"name": "btSupply", "type": "uint256"},
      {"name": "dtBalance", "type": "uint256"},
      {"name": "btBalance", "type": "uint256"},
      {"name": "withMint", "type": "bool"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"name": "exchangeId", "type": "bytes32"}],
    "name": "getFeesInfo",
    "outputs": [
      {"name": "marketFee", "type": "uint256"},
      {"name": "marketFeeCollector", "type": "address"},
      {"name": "opcFee", "type": "uint256"},
      {"name": "marketFeeAvailable", "type": "uint256"},
      {"name": "oceanFeeAvailable", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {"inputs": [{"name": "exchangeId", "type": "bytes32"}, {"name": "amount", "type": "uint256"}], "name": "collectBT", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "exchangeId", "type": "bytes32"}, {"name": "amount", "type": "uint256"}], "name": "collectDT", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "exchangeId", "type": "bytes32"}], "name": "collectMarketFee", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "exchangeId", "type": "bytes32"}], "name": "collectOceanFee", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "exchangeId", "type": "bytes32"},
      {"indexed": true, "name": "by", "type": "address"},
      {"indexed": false, "name": "datatokenSwappedAmount", "type": "uint256"},
      {"indexed": false, "name": "baseTokenSwappedAmount", "type": "uint256"},
      {"indexed": true, "name": "tokenOutAddress", "type": "address"},
      {"indexed": false, "name": "marketFeeAmount", "type": "uint256"},
      {"indexed": false, "name": "oceanFeeAmount", "type": "uint256"},
      {"indexed": false, "name": "consumeMarketFeeAmount", "type": "uint256"}
    ],
    "name": "Swapped",
    "type": "event"
  }
]`

const sideStakingABIJSON = `[
  {"inputs": [{"name": "datatokenAddress", "type": "address"}], "name": "getDatatokenCirculatingSupply", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "datatokenAddress", "type": "address"}], "name": "getDatatokenCurrentCirculatingSupply", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "datatokenAddress", "type": "address"}], "name": "getPublisherAddress", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "datatokenAddress", "type": "address"}], "name": "getBaseTokenAddress", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "datatokenAddress", "type": "address"}], "name": "getPoolAddress", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "datatokenAddress", "type": "address"}], "name": "getBaseTokenBalance", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "datatokenAddress", "type": "address"}], "name": "getDatatokenBalance", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "datatokenAddress", "type": "address"}], "name": "getvestingEndBlock", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "datatokenAddress", "type": "address"}], "name": "getvestingAmount", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "datatokenAddress", "type": "address"}], "name": "getvestingLastBlock", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "datatokenAddress", "type": "address"}], "name": "getvestingAmountSoFar", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "datatokenAddress", "type": "address"}], "name": "getAvailableVesting", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "datatokenAddress", "type": "address"}], "name": "getVesting", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "datatokenAddress", "type": "address"},
      {"indexed": true, "name": "publisherAddress", "type": "address"},
      {"indexed": true, "name": "caller", "type": "address"},
      {"indexed": false, "name": "amount", "type": "uint256"}
    ],
    "name": "Vesting",
    "type": "event"
  }
]`
